package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client initializes the S3 client from the blob storage settings.
// Credentials come from the default AWS chain.
func NewS3Client(ctx context.Context, cfg *Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// PublicBaseURL is the prefix for object URLs
func (c *Config) PublicBaseURL() string {
	if c.S3PublicBaseURL != "" {
		return c.S3PublicBaseURL
	}
	return "https://" + c.S3Bucket + ".s3." + c.S3Region + ".amazonaws.com"
}
