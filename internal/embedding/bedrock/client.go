// Package bedrock provides the AWS Bedrock embedding client used for
// both query-time and ingestion-time embedding generation.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"golang.org/x/time/rate"
)

// Client generates embedding vectors via AWS Bedrock Titan models.
type Client struct {
	client  *bedrockruntime.Client
	modelID string
	limiter *rate.Limiter
}

// TitanEmbeddingRequest represents the request structure for Titan embedding models
type TitanEmbeddingRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions,omitempty"`
	Normalize  bool   `json:"normalize,omitempty"`
}

// TitanEmbeddingResponse represents the response structure from Titan embedding models
type TitanEmbeddingResponse struct {
	Embedding           []float64 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit throttles InvokeModel calls. Ingestion uses this to
// stay under the Bedrock requests-per-second quota; query-time clients
// normally leave it unset.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// NewClient creates a new Bedrock embedding client.
func NewClient(awsConfig aws.Config, modelID string, opts ...Option) *Client {
	// Default to Titan v2 model if not specified
	if modelID == "" {
		modelID = "amazon.titan-embed-text-v2:0"
	}

	c := &Client{
		client:  bedrockruntime.NewFromConfig(awsConfig),
		modelID: modelID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateEmbedding creates an embedding vector from the given text.
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	request := TitanEmbeddingRequest{
		InputText:  text,
		Dimensions: 1024, // Titan v2 default dimension
		Normalize:  true,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	input := &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        requestBody,
	}

	result, err := c.client.InvokeModel(ctx, input)
	if err != nil {
		log.Printf("ERROR: failed to invoke bedrock model %s: %v", c.modelID, err)
		return nil, fmt.Errorf("failed to invoke bedrock model: %w", err)
	}

	var response TitanEmbeddingResponse
	if err := json.Unmarshal(result.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding data in response")
	}

	return response.Embedding, nil
}

// ModelID returns the configured embedding model identifier.
func (c *Client) ModelID() string {
	return c.modelID
}
