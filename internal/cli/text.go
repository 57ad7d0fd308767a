package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pawlens/pawlens/internal/model"
	"github.com/pawlens/pawlens/internal/pipeline"
)

// textCmd represents the text command
var textCmd = &cobra.Command{
	Use:   "text [file]",
	Short: "Score raw label text (e.g. OCR output) without any lookup",
	Long: `Text runs an ingredient list straight through normalization, matching,
and scoring. No network access is involved. Reads from the given file,
or from stdin when no file is given.

Example:
  pawlens text label.txt --species cat
  pbpaste | pawlens text --allergens beef`,
	Args: cobra.MaximumNArgs(1),
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)
	addProfileFlags(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	var raw []byte
	var err error
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read label text: %w", err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("empty label text")
	}

	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose
	if outJSON {
		cfg.Output.Format = "json"
	}
	profile, cat, err := buildProfile()
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// The offline path still goes through the full pipeline wiring; the
	// network components are simply never invoked.
	cfg.Cache.Enabled = false
	cfg.HTTP.Timeout = 30 * time.Second
	p := pipeline.NewFromConfig(cfg, log)

	result := p.ScanText(string(raw), profile, cat)
	return renderResult(result, cfg.Output)
}
