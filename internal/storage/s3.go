package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// opTimeout bounds every call against the object store so a stuck transport
// cannot hang a request indefinitely.
const opTimeout = 15 * time.Second

// S3Store stores attachments in an S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
	log    *zap.Logger
}

// NewS3Store creates an S3-backed blob store using the default AWS credential
// chain.
func NewS3Store(ctx context.Context, bucket, region string, log *zap.Logger) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
		log:    log,
	}, nil
}

// Upload puts the content under a fresh object key and returns the object URL.
func (s *S3Store) Upload(ctx context.Context, content io.Reader, originalName, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	key := objectKey(originalName)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %q: %w", key, err)
	}

	s.log.Debug("uploaded attachment", zap.String("key", key))
	return s.objectURL(key), nil
}

// Delete removes the object behind the URL.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, err := s.keyFromURL(url)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}

func (s *S3Store) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3Store) keyFromURL(url string) (string, error) {
	base := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
	if !strings.HasPrefix(url, base) {
		return "", fmt.Errorf("URL %q does not belong to bucket %q", url, s.bucket)
	}
	return strings.TrimPrefix(url, base), nil
}
