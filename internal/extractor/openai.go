package extractor

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	oaioption "github.com/openai/openai-go/option"

	"nutrition-log/internal/config"
	"nutrition-log/internal/models"
)

// OpenAI extracts nutrition through chat completions constrained by a strict
// JSON-schema response format.
type OpenAI struct {
	client    openai.Client
	model     string
	maxTokens int64
}

// NewOpenAI builds an OpenAI extractor. The SDK owns the request timeout and
// the transport-level retries.
func NewOpenAI(cfg config.ExtractorConfig) *OpenAI {
	opts := []oaioption.RequestOption{
		oaioption.WithAPIKey(cfg.APIKey),
		oaioption.WithRequestTimeout(cfg.Timeout),
		oaioption.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.OrganizationID != "" {
		opts = append(opts, oaioption.WithOrganization(cfg.OrganizationID))
	}
	if cfg.ProjectID != "" {
		opts = append(opts, oaioption.WithProject(cfg.ProjectID))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, oaioption.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAI{
		client:    openai.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

func (o *OpenAI) Provider() string { return config.ProviderOpenAI }

func (o *OpenAI) Extract(ctx context.Context, text string) (*models.Extraction, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(o.model),
		MaxCompletionTokens: openai.Int(o.maxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(text),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        schemaName,
					Description: openai.String(schemaDescription),
					Schema:      nutritionSchema,
					Strict:      openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, nil
	}
	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return nil, nil
	}

	return parseExtraction(msg.Content), nil
}
