package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// chatRequest is the request payload for Anthropic models on AWS Bedrock.
type chatRequest struct {
	Messages         []chatMessage `json:"messages"`
	MaxTokens        int           `json:"max_tokens,omitempty"`
	Temperature      float64       `json:"temperature,omitempty"`
	AnthropicVersion string        `json:"anthropic_version,omitempty"`
	System           string        `json:"system,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response payload from chat models.
type chatResponse struct {
	Content []chatContent `json:"content"`
	Usage   chatUsage     `json:"usage,omitempty"`
}

type chatContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type chatUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// BedrockGenerator implements Generator for one Bedrock chat model.
type BedrockGenerator struct {
	client  *bedrockruntime.Client
	modelID string
}

// NewBedrockGenerator wraps the given chat model as a Generator.
func NewBedrockGenerator(awsConfig aws.Config, modelID string) (*BedrockGenerator, error) {
	if modelID == "" {
		return nil, fmt.Errorf("model ID cannot be empty")
	}
	return &BedrockGenerator{
		client:  bedrockruntime.NewFromConfig(awsConfig),
		modelID: modelID,
	}, nil
}

// Generate sends the prompt as a single user message and returns the
// model's text response.
func (g *BedrockGenerator) Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}
	if maxTokens <= 0 {
		maxTokens = 2000
	}

	request := chatRequest{
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:        maxTokens,
		Temperature:      temperature,
		AnthropicVersion: "bedrock-2023-05-31",
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	input := &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        requestBody,
	}

	result, err := g.client.InvokeModel(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to invoke bedrock model: %w", err)
	}

	var response chatResponse
	if err := json.Unmarshal(result.Body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return response.Content[0].Text, nil
}

// ModelID returns the wrapped model identifier.
func (g *BedrockGenerator) ModelID() string {
	return g.modelID
}
