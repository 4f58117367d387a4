// Package report publishes test reports to object storage and hands out
// time-bounded retrieval links.
package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"k8sgrader/internal/model"
)

// Publisher uploads a local report artifact and returns a signed URL for it.
type Publisher interface {
	Publish(ctx context.Context, reportPath string, phase model.GamePhase, timestamp, email, game, task string) (string, error)
}

// objectKey derives the deterministic storage key for one graded attempt.
func objectKey(phase model.GamePhase, timestamp, email, game, task string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s/report.html", game, email, task, phase, timestamp)
}

// S3Publisher stores reports in an S3 bucket.
type S3Publisher struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
}

// NewS3Publisher creates a publisher using the ambient AWS configuration.
func NewS3Publisher(ctx context.Context, bucket string, expiry time.Duration) (*S3Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Publisher{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		expiry:  expiry,
	}, nil
}

// Publish uploads the report under its deterministic key, then signs a
// retrieval URL for the same key. The report must already exist locally;
// a missing file is the caller's staging failure, not a publishing one.
func (p *S3Publisher) Publish(ctx context.Context, reportPath string, phase model.GamePhase, timestamp, email, game, task string) (string, error) {
	file, err := os.Open(reportPath)
	if err != nil {
		return "", fmt.Errorf("failed to open report: %w", err)
	}
	defer file.Close()

	key := objectKey(phase, timestamp, email, game, task)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("text/html"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	signed, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.expiry))
	if err != nil {
		return "", fmt.Errorf("failed to sign report URL: %w", err)
	}
	return signed.URL, nil
}
