// Package storage is the blob store for recipe thumbnails, step images and
// avatars.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bitebot/backend/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// BlobStore stores a file and returns its id and public url
type BlobStore interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (models.Image, error)
	Delete(ctx context.Context, id string) error
}

// S3API is the part of the S3 client the store uses
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// BreakerConfig tunes the circuit breaker in front of S3
type BreakerConfig struct {
	FailureThreshold uint32
	Timeout          time.Duration
	MaxRequests      uint32
}

// DefaultBreakerConfig opens after 5 consecutive failures for 30s
var DefaultBreakerConfig = BreakerConfig{FailureThreshold: 5, Timeout: 30 * time.Second, MaxRequests: 1}

// S3Store is a BlobStore over an S3 bucket
type S3Store struct {
	client  S3API
	bucket  string
	baseURL string
	prefix  string
	breaker *gobreaker.CircuitBreaker[interface{}]
}

// NewS3Store wraps client. Objects are keyed under prefix and served from
// baseURL.
func NewS3Store(client S3API, bucket, baseURL string, bc BreakerConfig, logger zerolog.Logger) *S3Store {
	settings := gobreaker.Settings{
		Name:        "s3:" + bucket,
		MaxRequests: bc.MaxRequests,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bc.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("blob store breaker state changed")
		},
	}
	return &S3Store{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  "bitebot",
		breaker: gobreaker.NewCircuitBreaker[interface{}](settings),
	}
}

// Upload stores r under a fresh key that keeps the extension of name
func (s *S3Store) Upload(ctx context.Context, name, contentType string, r io.Reader) (models.Image, error) {
	key := path.Join(s.prefix, uuid.NewString()+strings.ToLower(path.Ext(name)))
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        r,
			ContentType: aws.String(contentType),
		})
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("upload %s: %w", name, err)
	}
	return models.Image{ID: key, URL: s.baseURL + "/" + key}, nil
}

// Delete removes the object. An empty id is a no-op.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(id),
		})
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// State reports the breaker state for health output
func (s *S3Store) State() string {
	return s.breaker.State().String()
}
