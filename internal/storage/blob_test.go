package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	puts    map[string]string
	deletes []string
	err     error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.puts[*in.Key] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestUploadAndDelete(t *testing.T) {
	client := &fakeS3{puts: map[string]string{}}
	store := NewS3Store(client, "media", "https://cdn.example/", DefaultBreakerConfig, zerolog.Nop())

	img, err := store.Upload(context.Background(), "Soup.JPG", "image/jpeg", strings.NewReader("pixels"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(img.ID, "bitebot/"))
	assert.True(t, strings.HasSuffix(img.ID, ".jpg"))
	assert.Equal(t, "https://cdn.example/"+img.ID, img.URL)
	assert.Equal(t, "pixels", client.puts[img.ID])

	require.NoError(t, store.Delete(context.Background(), img.ID))
	require.NoError(t, store.Delete(context.Background(), ""))
	assert.Equal(t, []string{img.ID}, client.deletes)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	client := &fakeS3{puts: map[string]string{}, err: errors.New("503 slow down")}
	store := NewS3Store(client, "media", "https://cdn.example", BreakerConfig{
		FailureThreshold: 2,
		Timeout:          time.Minute,
		MaxRequests:      1,
	}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		_, err := store.Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"))
		assert.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen.String(), store.State())

	_, err := store.Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
