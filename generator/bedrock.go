package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/tsp-platform/casegen/logger"
	"github.com/tsp-platform/casegen/stepeditor"
	"github.com/tsp-platform/casegen/testpoint"
)

// BedrockConfig holds the settings for the Bedrock-backed generator. When
// AccessKeyID is empty the default AWS credential chain is used.
type BedrockConfig struct {
	Region          string
	ModelID         string
	MaxTokens       int
	AccessKeyID     string
	SecretAccessKey string
}

// BedrockGenerator implements CaseGenerator using AWS Bedrock.
type BedrockGenerator struct {
	client        *bedrockruntime.Client
	modelID       string
	maxTokens     int
	validationCfg *ValidationConfig
	logger        logger.Logger
}

// NewBedrockGenerator creates a new Bedrock-based case generator.
func NewBedrockGenerator(cfg BedrockConfig, log logger.Logger) (*BedrockGenerator, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &BedrockGenerator{
		client:        bedrockruntime.NewFromConfig(awsCfg),
		modelID:       cfg.ModelID,
		maxTokens:     cfg.MaxTokens,
		validationCfg: DefaultValidationConfig(),
		logger:        log,
	}, nil
}

// SetValidationConfig sets the prompt input limits for the generator.
func (g *BedrockGenerator) SetValidationConfig(cfg *ValidationConfig) {
	g.validationCfg = cfg
}

// Generate expands a test point into a test case draft using AWS Bedrock.
func (g *BedrockGenerator) Generate(ctx context.Context, point *testpoint.TestPoint) (*GeneratedCase, error) {
	prompt, err := BuildPrompt(point, g.validationCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	requestBody := map[string]interface{}{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens":        g.maxTokens,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": prompt,
					},
				},
			},
		},
	}

	payloadBytes, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payloadBytes,
	})
	if err != nil {
		g.logger.Error(ctx, "failed to invoke Bedrock model", map[string]interface{}{
			"error":    err.Error(),
			"model_id": g.modelID,
		})
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	var response struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		StopReason string `json:"stop_reason"`
	}

	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(response.Content) == 0 {
		return nil, ErrEmptyResponse
	}

	generated, err := ParseGeneratedCase(response.Content[0].Text)
	if err != nil {
		g.logger.Error(ctx, "failed to parse generated case", map[string]interface{}{
			"error":       err.Error(),
			"model_id":    g.modelID,
			"stop_reason": response.StopReason,
		})
		return nil, err
	}

	g.logger.Info(ctx, "test case generated", map[string]interface{}{
		"test_point_id": point.ID.String(),
		"steps":         len(generated.Steps),
	})

	return generated, nil
}

// ParseGeneratedCase parses the raw model output into a GeneratedCase. It
// strips markdown code fences that models often include despite prompt
// instructions, and normalizes the parsed step list.
func ParseGeneratedCase(raw string) (*GeneratedCase, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	if strings.HasPrefix(text, "```") {
		// Remove opening fence line (e.g. "```json\n" or "```\n")
		if idx := strings.Index(text, "\n"); idx != -1 {
			text = text[idx+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	// Tolerate surrounding prose by slicing down to the outermost object.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, ErrMalformedSteps
	}
	text = text[start : end+1]

	var generated GeneratedCase
	if err := json.Unmarshal([]byte(text), &generated); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSteps, err)
	}

	if len(generated.Steps) == 0 {
		return nil, ErrMalformedSteps
	}

	// Fresh reconciliation keys and contiguous numbering regardless of what
	// the model produced.
	steps := make(stepeditor.StepList, 0, len(generated.Steps))
	for i, step := range generated.Steps {
		action := strings.TrimSpace(step.Action)
		if action == "" {
			continue
		}
		steps = append(steps, stepeditor.Step{
			ID:         stepeditor.NewStepID(),
			StepNumber: i + 1,
			Action:     action,
			Expected:   strings.TrimSpace(step.Expected),
		})
	}
	if len(steps) == 0 {
		return nil, ErrMalformedSteps
	}
	for i := range steps {
		steps[i].StepNumber = i + 1
	}
	generated.Steps = steps

	return &generated, nil
}
