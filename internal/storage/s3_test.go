package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/venue-booking/internal/config"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3UploaderPut(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{
			name: "public base url",
			cfg:  config.StorageConfig{Bucket: "media", Region: "us-east-1", PublicBaseURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/venues/v-1/a.webp",
		},
		{
			name: "custom endpoint",
			cfg:  config.StorageConfig{Bucket: "media", Endpoint: "http://minio:9000"},
			want: "http://minio:9000/media/venues/v-1/a.webp",
		},
		{
			name: "aws default",
			cfg:  config.StorageConfig{Bucket: "media", Region: "sa-east-1"},
			want: "https://media.s3.sa-east-1.amazonaws.com/venues/v-1/a.webp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeS3{}
			u := newS3Uploader(api, tt.cfg)

			url, err := u.Put(context.Background(), "/venues/v-1/a.webp", "image/webp", []byte("img"))
			if err != nil {
				t.Fatal(err)
			}
			if url != tt.want {
				t.Errorf("url = %q, want %q", url, tt.want)
			}
			if aws.ToString(api.in.Bucket) != "media" || aws.ToString(api.in.Key) != "venues/v-1/a.webp" {
				t.Errorf("input = %s/%s", aws.ToString(api.in.Bucket), aws.ToString(api.in.Key))
			}
			if aws.ToString(api.in.ContentType) != "image/webp" || string(api.body) != "img" {
				t.Errorf("content = %s %q", aws.ToString(api.in.ContentType), api.body)
			}
		})
	}
}

func TestS3UploaderErrors(t *testing.T) {
	if _, err := NewS3Uploader(config.StorageConfig{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v", err)
	}

	boom := errors.New("access denied")
	u := newS3Uploader(&fakeS3{err: boom}, config.StorageConfig{Bucket: "media"})
	if _, err := u.Put(context.Background(), "k", "image/webp", nil); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}
