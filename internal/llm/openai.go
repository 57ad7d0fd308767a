package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/pawlens/pawlens/internal/model"
)

// OpenAIProvider implements Provider against the OpenAI chat API (or any
// compatible endpoint via BaseURL).
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates an OpenAI-backed provider.
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

const extractSystemPrompt = "You extract pet food ingredient lists from web page text. " +
	"Respond with a JSON array of ingredient strings in label order, nothing else. " +
	"If no ingredient list is present, respond with an empty array."

// ExtractIngredients asks the model for the page's ingredient list.
func (p *OpenAIProvider) ExtractIngredients(ctx context.Context, pageText string) ([]string, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	// Cap the page text so a dumped product page fits the context window.
	if len(pageText) > 12000 {
		pageText = pageText[:12000]
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: pageText},
		},
		MaxTokens:   p.maxTokens(),
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("openai extract: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai extract: empty response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.Trim(content, "` \n")

	var ingredients []string
	if err := json.Unmarshal([]byte(content), &ingredients); err != nil {
		return nil, fmt.Errorf("openai extract: parse response: %w", err)
	}
	return ingredients, nil
}

const identifyPrompt = "Identify the pet product in this photo. " +
	"Respond with JSON: {\"brand\": string, \"name\": string}. Use empty strings when unsure."

// IdentifyProduct asks the vision model to read brand and product name off
// a photo.
func (p *OpenAIProvider) IdentifyProduct(ctx context.Context, imageBase64 string) (*ProductGuess, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	visionModel := p.config.VisionModel
	if visionModel == "" {
		visionModel = openai.GPT4o
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: visionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: identifyPrompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: "data:image/jpeg;base64," + imageBase64,
						},
					},
				},
			},
		},
		MaxTokens:   p.maxTokens(),
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("openai identify: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai identify: empty response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.Trim(content, "` \n")

	var parsed struct {
		Brand string `json:"brand"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("openai identify: parse response: %w", err)
	}

	guess := &ProductGuess{Brand: parsed.Brand, Name: parsed.Name, Confidence: model.ConfidenceLow}
	if parsed.Brand != "" && parsed.Name != "" {
		guess.Confidence = model.ConfidenceMedium
	}
	return guess, nil
}

func (p *OpenAIProvider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(p.config.TimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

func (p *OpenAIProvider) model() string {
	if p.config.Model != "" {
		return p.config.Model
	}
	return openai.GPT4oMini
}

func (p *OpenAIProvider) maxTokens() int {
	if p.config.MaxTokens > 0 {
		return p.config.MaxTokens
	}
	return 800
}
