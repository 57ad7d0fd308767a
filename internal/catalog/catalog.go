package catalog

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pawlens/pawlens/internal/model"
)

//go:embed data/ingredients.json data/rules.json data/synonyms.json
var bundled embed.FS

// Catalog is the process-wide read-only ingredient reference: ingredient
// records keyed by id, a synonym table mapping normalized raw phrases to
// ingredient ids, and curated risk rules. It is populated once by Load and
// never mutated afterward, so concurrent reads need no locking; readers that
// may race startup should call Ready first.
type Catalog struct {
	ingredients map[string]*model.IngredientRecord
	synonyms    map[string]string
	rules       []model.RiskRule

	// synonym keys sorted longest-first, precomputed for the normalizer's
	// greedy multi-word phrase matching
	phraseKeys []string

	ready chan struct{}
}

// Load builds a catalog from the bundled datasets, optionally overridden by
// files of the same name in dir. A missing or corrupt dataset degrades to an
// empty table rather than failing startup.
func Load(dir string, log *zap.Logger) *Catalog {
	c := &Catalog{
		ingredients: make(map[string]*model.IngredientRecord),
		synonyms:    make(map[string]string),
		ready:       make(chan struct{}),
	}

	var records []model.IngredientRecord
	if err := loadJSON(dir, "ingredients.json", &records); err != nil {
		log.Warn("ingredient dataset unavailable, starting with empty table", zap.Error(err))
	}
	for i := range records {
		rec := records[i]
		if _, dup := c.ingredients[rec.ID]; dup {
			log.Warn("duplicate ingredient id ignored", zap.String("id", rec.ID))
			continue
		}
		c.ingredients[rec.ID] = &rec
	}

	if err := loadJSON(dir, "rules.json", &c.rules); err != nil {
		log.Warn("rule dataset unavailable, starting with empty table", zap.Error(err))
	}

	raw := map[string]string{}
	if err := loadJSON(dir, "synonyms.json", &raw); err != nil {
		log.Warn("synonym dataset unavailable, starting with empty table", zap.Error(err))
	}
	for phrase, id := range raw {
		c.synonyms[strings.ToLower(strings.TrimSpace(phrase))] = id
	}

	// Every catalog name is implicitly its own synonym.
	for id, rec := range c.ingredients {
		key := strings.ToLower(strings.TrimSpace(rec.Name))
		if _, exists := c.synonyms[key]; !exists {
			c.synonyms[key] = id
		}
	}

	c.phraseKeys = make([]string, 0, len(c.synonyms))
	for k := range c.synonyms {
		c.phraseKeys = append(c.phraseKeys, k)
	}
	sort.Slice(c.phraseKeys, func(i, j int) bool {
		if len(c.phraseKeys[i]) != len(c.phraseKeys[j]) {
			return len(c.phraseKeys[i]) > len(c.phraseKeys[j])
		}
		return c.phraseKeys[i] < c.phraseKeys[j]
	})

	close(c.ready)

	log.Info("ingredient catalog loaded",
		zap.Int("ingredients", len(c.ingredients)),
		zap.Int("synonyms", len(c.synonyms)),
		zap.Int("rules", len(c.rules)))

	return c
}

// loadJSON reads a dataset from dir when present, else from the bundled copy.
func loadJSON(dir, name string, out interface{}) error {
	if dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
			return json.Unmarshal(data, out)
		}
	}
	data, err := bundled.ReadFile("data/" + name)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Ready blocks until the catalog has finished loading. Load closes the
// channel before returning, so this only matters for catalogs constructed
// asynchronously via LoadAsync.
func (c *Catalog) Ready() <-chan struct{} {
	return c.ready
}

// LoadAsync starts catalog loading in the background and returns immediately.
// Consumers must wait on Ready (or call any accessor, which waits internally)
// before querying.
func LoadAsync(dir string, log *zap.Logger) *Catalog {
	c := &Catalog{
		ingredients: make(map[string]*model.IngredientRecord),
		synonyms:    make(map[string]string),
		ready:       make(chan struct{}),
	}
	var once sync.Once
	go func() {
		loaded := Load(dir, log)
		c.ingredients = loaded.ingredients
		c.synonyms = loaded.synonyms
		c.rules = loaded.rules
		c.phraseKeys = loaded.phraseKeys
		once.Do(func() { close(c.ready) })
	}()
	return c
}

// Ingredient returns the record for the given id.
func (c *Catalog) Ingredient(id string) (*model.IngredientRecord, bool) {
	<-c.ready
	rec, ok := c.ingredients[id]
	return rec, ok
}

// Lookup resolves a normalized lowercase phrase through the synonym table.
func (c *Catalog) Lookup(phrase string) (string, bool) {
	<-c.ready
	id, ok := c.synonyms[phrase]
	return id, ok
}

// SynonymKeys returns all synonym phrases sorted longest-first.
// The returned slice is shared and must not be modified.
func (c *Catalog) SynonymKeys() []string {
	<-c.ready
	return c.phraseKeys
}

// RulesFor returns every risk rule targeting the ingredient that applies to
// the given species and category.
func (c *Catalog) RulesFor(ingredientID string, species model.Species, category model.Category) []model.RiskRule {
	<-c.ready
	var matched []model.RiskRule
	for i := range c.rules {
		r := &c.rules[i]
		if r.IngredientID == ingredientID && r.AppliesTo(species, category) {
			matched = append(matched, *r)
		}
	}
	return matched
}

// Size returns the number of ingredient records loaded.
func (c *Catalog) Size() int {
	<-c.ready
	return len(c.ingredients)
}
