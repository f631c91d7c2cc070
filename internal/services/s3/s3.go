// Package s3service archives refill check records to S3
package s3service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"refill-eligibility/internal/models"
	"refill-eligibility/internal/utils"
)

// PutObjectAPI is the part of the S3 client the service uses
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Service handles S3 operations
type Service struct {
	client     PutObjectAPI
	bucketName string
	prefix     string
}

// NewService creates a new S3 service using the default AWS credential chain
func NewService(ctx context.Context, region, bucketName, prefix string) (*Service, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("audit bucket is not configured")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewWithClient(s3.NewFromConfig(cfg), bucketName, prefix), nil
}

// NewWithClient creates a service around an existing client
func NewWithClient(client PutObjectAPI, bucketName, prefix string) *Service {
	return &Service{
		client:     client,
		bucketName: bucketName,
		prefix:     prefix,
	}
}

// RecordKey returns the object key for a record, partitioned by day
func (s *Service) RecordKey(record models.CheckRecord) string {
	day := record.CheckedAt.UTC().Format("2006/01/02")
	return path.Join(s.prefix, day, record.ID.String()+".json")
}

// Record stores a check record as a JSON object
func (s *Service) Record(ctx context.Context, record models.CheckRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal check record: %w", err)
	}

	return s.UploadFile(ctx, s.RecordKey(record), data, "application/json")
}

// UploadFile uploads a file to S3
func (s *Service) UploadFile(ctx context.Context, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	_, err := s.client.PutObject(ctx, input)
	if err != nil {
		utils.GetLogger().Error("Failed to upload file to S3",
			zap.String("bucket", s.bucketName),
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to upload file: %w", err)
	}

	utils.GetLogger().Debug("Uploaded file to S3",
		zap.String("bucket", s.bucketName),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return nil
}
