package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Archiver stores original statement PDFs in S3 for audit purposes
type S3Archiver struct {
	s3Client *s3.S3
	bucket   string
}

// Config holds configuration for the S3 archiver. Credentials come from the
// standard AWS credential chain.
type Config struct {
	Region string
	Bucket string
}

// NewS3Archiver creates a new S3 archiver
func NewS3Archiver(config *Config) (*S3Archiver, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}
	if config.Region == "" {
		return nil, fmt.Errorf("S3 region is not configured")
	}

	sess := session.Must(session.NewSession(&aws.Config{
		Region: aws.String(config.Region),
	}))

	return &S3Archiver{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
	}, nil
}

// ArchivePDF uploads the original statement PDF and returns its object key
func (a *S3Archiver) ArchivePDF(ctx context.Context, statementID string, pdf []byte) (string, error) {
	key := fmt.Sprintf("statements/%s.pdf", statementID)

	_, err := a.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(pdf),
		ContentType:   aws.String("application/pdf"),
		ContentLength: aws.Int64(int64(len(pdf))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return key, nil
}
