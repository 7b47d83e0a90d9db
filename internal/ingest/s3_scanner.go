package ingest

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client the scanner needs. The real
// *s3.Client satisfies it.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source scans an S3 bucket prefix for supported files.
type S3Source struct {
	client S3API
	bucket string
	prefix string
}

func NewS3Source(client S3API, bucket, prefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// Scan lists all objects under the prefix and downloads the supported
// ones. Unsupported keys are skipped silently.
func (s *S3Source) Scan(ctx context.Context) ([]Document, error) {
	var docs []Document

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing s3://%s/%s: %w", s.bucket, s.prefix, err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !SupportedFile(key) {
				continue
			}

			data, err := s.download(ctx, key)
			if err != nil {
				return nil, err
			}
			docs = append(docs, Document{
				ID:       DocumentID(key),
				Filename: path.Base(key),
				Data:     data,
			})
		}
	}
	return docs, nil
}

func (s *S3Source) download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("downloading s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s: %w", s.bucket, key, err)
	}
	return data, nil
}
