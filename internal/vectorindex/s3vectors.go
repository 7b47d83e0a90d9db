package vectorindex

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors"
	"github.com/aws/aws-sdk-go-v2/service/s3vectors/document"
	s3vtypes "github.com/aws/aws-sdk-go-v2/service/s3vectors/types"
)

// metaContent is the metadata key holding the full chunk text. It must
// be configured as a non-filterable key on the S3 Vectors index, since
// filterable metadata is capped at 2048 bytes.
const metaContent = "content"

// S3VectorIndex implements Index on top of Amazon S3 Vectors. The
// backing index must be created with the cosine distance metric; the
// relevance conversion downstream assumes distances in [0,2].
type S3VectorIndex struct {
	client     *s3vectors.Client
	bucketName string
	indexName  string
}

// S3Config holds the configuration for the S3 Vectors index
type S3Config struct {
	VectorBucketName string
	IndexName        string
}

// NewS3VectorIndex creates an Index backed by S3 Vectors.
func NewS3VectorIndex(awsConfig aws.Config, cfg *S3Config) (*S3VectorIndex, error) {
	if cfg.VectorBucketName == "" {
		return nil, fmt.Errorf("vector bucket name is required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}

	return &S3VectorIndex{
		client:     s3vectors.NewFromConfig(awsConfig),
		bucketName: cfg.VectorBucketName,
		indexName:  cfg.IndexName,
	}, nil
}

// Add uploads entries as vectors with chunk metadata.
func (s *S3VectorIndex) Add(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	vectors := make([]s3vtypes.PutInputVector, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("entry ID cannot be empty")
		}
		if len(e.Embedding) == 0 {
			return fmt.Errorf("entry %s has no embedding", e.ID)
		}

		float32Embedding := make([]float32, len(e.Embedding))
		for i, v := range e.Embedding {
			float32Embedding[i] = float32(v)
		}

		metadataMap := make(map[string]interface{}, len(e.Metadata)+1)
		for k, v := range e.Metadata {
			metadataMap[k] = v
		}
		metadataMap[metaContent] = e.Content

		vectors = append(vectors, s3vtypes.PutInputVector{
			Key: aws.String(e.ID),
			Data: &s3vtypes.VectorDataMemberFloat32{
				Value: float32Embedding,
			},
			Metadata: document.NewLazyDocument(metadataMap),
		})
	}

	_, err := s.client.PutVectors(ctx, &s3vectors.PutVectorsInput{
		VectorBucketName: aws.String(s.bucketName),
		IndexName:        aws.String(s.indexName),
		Vectors:          vectors,
	})
	if err != nil {
		return fmt.Errorf("failed to upload vectors to S3 Vectors: %w", err)
	}

	return nil
}

// Query performs a nearest-neighbor lookup and returns parallel arrays
// of content, metadata, and distance.
func (s *S3VectorIndex) Query(ctx context.Context, embedding []float64, topK int, filter Filter) (*QueryResponse, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("query embedding cannot be empty")
	}
	if topK <= 0 {
		topK = 10
	}

	float32Vector := make([]float32, len(embedding))
	for i, v := range embedding {
		float32Vector[i] = float32(v)
	}

	input := &s3vectors.QueryVectorsInput{
		VectorBucketName: aws.String(s.bucketName),
		IndexName:        aws.String(s.indexName),
		QueryVector: &s3vtypes.VectorDataMemberFloat32{
			Value: float32Vector,
		},
		TopK:           aws.Int32(int32(topK)),
		ReturnDistance: true,
		ReturnMetadata: true,
	}
	if len(filter) > 0 {
		input.Filter = document.NewLazyDocument(map[string]interface{}(filter))
	}

	result, err := s.client.QueryVectors(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}

	resp := &QueryResponse{
		IDs:       make([]string, 0, len(result.Vectors)),
		Contents:  make([]string, 0, len(result.Vectors)),
		Metadatas: make([]map[string]string, 0, len(result.Vectors)),
		Distances: make([]float64, 0, len(result.Vectors)),
	}

	for _, vector := range result.Vectors {
		key := ""
		if vector.Key != nil {
			key = *vector.Key
		}

		distance := 0.0
		if vector.Distance != nil {
			distance = float64(*vector.Distance)
		}

		content, metadata := decodeMetadata(vector.Metadata)

		resp.IDs = append(resp.IDs, key)
		resp.Contents = append(resp.Contents, content)
		resp.Metadatas = append(resp.Metadatas, metadata)
		resp.Distances = append(resp.Distances, distance)
	}

	return resp, nil
}

// Get lists all vectors and filters them client-side, since the S3
// Vectors list API does not accept metadata filters.
func (s *S3VectorIndex) Get(ctx context.Context, filter Filter) ([]Entry, error) {
	var entries []Entry

	input := &s3vectors.ListVectorsInput{
		VectorBucketName: aws.String(s.bucketName),
		IndexName:        aws.String(s.indexName),
		ReturnMetadata:   true,
	}

	for {
		result, err := s.client.ListVectors(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list vectors: %w", err)
		}

		for _, vector := range result.Vectors {
			key := ""
			if vector.Key != nil {
				key = *vector.Key
			}

			content, metadata := decodeMetadata(vector.Metadata)
			if !filter.Matches(metadata) {
				continue
			}

			entries = append(entries, Entry{
				ID:       key,
				Content:  content,
				Metadata: metadata,
			})
		}

		if result.NextToken == nil || *result.NextToken == "" {
			break
		}
		input.NextToken = result.NextToken
	}

	return entries, nil
}

// Delete removes vectors by key.
func (s *S3VectorIndex) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := s.client.DeleteVectors(ctx, &s3vectors.DeleteVectorsInput{
		VectorBucketName: aws.String(s.bucketName),
		IndexName:        aws.String(s.indexName),
		Keys:             ids,
	})
	if err != nil {
		return fmt.Errorf("failed to delete %d vectors from S3 Vectors: %w", len(ids), err)
	}

	return nil
}

// decodeMetadata unmarshals vector metadata, separating the chunk
// content from the string metadata fields.
func decodeMetadata(doc document.Interface) (string, map[string]string) {
	metadata := make(map[string]string)
	if doc == nil {
		return "", metadata
	}

	var raw map[string]interface{}
	if err := doc.UnmarshalSmithyDocument(&raw); err != nil {
		log.Printf("failed to unmarshal vector metadata: %v", err)
		return "", metadata
	}

	content := ""
	for k, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		if k == metaContent {
			content = str
			continue
		}
		metadata[k] = str
	}
	return content, metadata
}
