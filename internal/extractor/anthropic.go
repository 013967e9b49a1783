package extractor

import (
	"context"
	"encoding/json"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	antoption "github.com/anthropics/anthropic-sdk-go/option"

	"nutrition-log/internal/config"
	"nutrition-log/internal/models"
)

const toolName = "record_nutrition"

// Anthropic extracts nutrition by forcing a single tool call whose input
// schema is the nutrition schema.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func NewAnthropic(cfg config.ExtractorConfig) *Anthropic {
	opts := []antoption.RequestOption{
		antoption.WithAPIKey(cfg.APIKey),
		antoption.WithRequestTimeout(cfg.Timeout),
		antoption.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, antoption.WithBaseURL(cfg.BaseURL))
	}

	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

func (a *Anthropic) Provider() string { return config.ProviderAnthropic }

func (a *Anthropic) Extract(ctx context.Context, text string) (*models.Extraction, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: SystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
		Tools: []anthropic.ToolUnionParam{{
			OfTool: &anthropic.ToolParam{
				Name:        toolName,
				Description: anthropic.String(schemaDescription),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: nutritionProperties,
					Required:   nutritionRequired,
				},
			},
		}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: toolName},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.ToolUseBlock:
			if b.Name != toolName {
				continue
			}
			input, err := json.Marshal(b.Input)
			if err != nil {
				return nil, fmt.Errorf("marshal tool input: %w", err)
			}
			return parseExtraction(string(input)), nil
		case anthropic.TextBlock:
			// The model answered in prose; accept it only if it embeds the object.
			if out := parseExtraction(b.Text); out != nil {
				return out, nil
			}
		}
	}

	return nil, nil
}
