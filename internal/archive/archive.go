// Package archive keeps raw recipient uploads in S3 for audit.
package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/awsconf"
)

// API is the subset of the S3 client the archiver needs
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	api    API
	bucket string
	log    *zap.Logger
}

// NewS3API builds an S3 client. Path-style addressing is used whenever a local endpoint is set.
func NewS3API(ctx context.Context, region, endpoint string, log *zap.Logger) (*s3.Client, error) {
	cfg, err := awsconf.Load(ctx, region, endpoint, log)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = endpoint != ""
	}), nil
}

func NewS3Archiver(api API, bucket string, log *zap.Logger) *S3Archiver {
	return &S3Archiver{api: api, bucket: bucket, log: log}
}

// Archive uploads data under key
func (a *S3Archiver) Archive(ctx context.Context, key, contentType string, data []byte) error {
	_, err := a.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to s3: %w", key, err)
	}

	a.log.Debug("Archived upload",
		zap.String("bucket", a.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return nil
}
