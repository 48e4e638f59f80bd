package rawstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"distance-matrix-service/internal/domain"
	"distance-matrix-service/internal/ports"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const objectPrefix = "raw/"

// S3Store archives raw responses in an S3-compatible bucket, one JSON object
// per derived name. Same put-once contract as the filesystem store.
type S3Store struct {
	client *minio.Client
	bucket string
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, errors.New("raw store: endpoint, access key, secret key and bucket are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("raw store: create s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("raw store: check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("raw store: create bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func objectKey(name string) string { return objectPrefix + name + ".json" }

func (s *S3Store) Put(ctx context.Context, name string, resp *domain.RawResponse) error {
	if resp == nil {
		return errors.New("put raw response: response is nil")
	}

	data, err := json.MarshalIndent(resp, "", "    ")
	if err != nil {
		return fmt.Errorf("put raw response: marshal: %w", err)
	}

	key := objectKey(name)

	// Write-once: compare against any existing object before writing.
	_, statErr := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if statErr == nil {
		existing, err := s.readObject(ctx, key)
		if err != nil {
			return err
		}
		if bytes.Equal(existing, data) {
			return nil
		}
		return fmt.Errorf("put raw response %q: %w", name, ports.ErrKeyConflict)
	}
	if minio.ToErrorResponse(statErr).Code != "NoSuchKey" {
		return fmt.Errorf("put raw response: stat %q: %w", key, statErr)
	}

	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("put raw response: store %q: %w", key, err)
	}

	return nil
}

func (s *S3Store) Get(ctx context.Context, name string) (*domain.RawResponse, error) {
	data, err := s.readObject(ctx, objectKey(name))
	if err != nil {
		return nil, err
	}

	var resp domain.RawResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("get raw response: parse %q: %w", name, err)
	}

	return &resp, nil
}

func (s *S3Store) Find(ctx context.Context, fingerprint string) (*domain.RawResponse, error) {
	if strings.TrimSpace(fingerprint) == "" {
		return nil, errors.New("find raw response: fingerprint must be non-empty")
	}

	suffix := "_" + fingerprint + ".json"
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: objectPrefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("find raw response: list objects: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, suffix) {
			name := strings.TrimSuffix(strings.TrimPrefix(obj.Key, objectPrefix), ".json")
			return s.Get(ctx, name)
		}
	}

	return nil, ports.ErrNotFound
}

func (s *S3Store) readObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get raw response: get object %q: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("get raw response: read object %q: %w", key, err)
	}

	return data, nil
}
