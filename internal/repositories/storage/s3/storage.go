package s3storage

import (
	"bytes"
	"context"
	"docmanager/internal/models"
	"docmanager/internal/repositories/storage"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	uuid "github.com/satori/go.uuid"
)

const pkg = "s3Storage/"

type Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	MaxSize      int64
}

// API is the subset of the S3 client the storage uses.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Storage struct {
	client  API
	bucket  string
	maxSize int64
	clock   func() time.Time
}

func New(ctx context.Context, cfg Config) (*Storage, error) {
	op := pkg + "New"

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load aws config: %w", op, err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewWithClient(client, cfg.Bucket, cfg.MaxSize), nil
}

func NewWithClient(client API, bucket string, maxSize int64) *Storage {
	if maxSize <= 0 {
		maxSize = storage.DefaultMaxSize
	}

	return &Storage{
		client:  client,
		bucket:  bucket,
		maxSize: maxSize,
		clock:   time.Now,
	}
}

func (s *Storage) MaxSize() int64 {
	return s.maxSize
}

func (s *Storage) IsAllowedType(contentType string) bool {
	return storage.IsAllowedType(contentType)
}

func (s *Storage) Save(ctx context.Context, r io.Reader, name string, contentType string) (string, error) {
	op := pkg + "Save"

	if !s.IsAllowedType(contentType) {
		return "", fmt.Errorf("%s: %w", op, models.ErrUnsupportedType)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if int64(len(data)) > s.maxSize {
		return "", fmt.Errorf("%s: %w", op, models.ErrFileTooLarge)
	}

	key := path.Join(s.clock().UTC().Format("2006-01"), uuid.NewV4().String()+storage.Extension(name, contentType))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%s: failed to upload: %w", op, err)
	}

	return key, nil
}

func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	op := pkg + "Open"

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, "", fmt.Errorf("%s: %w", op, models.ErrFileNotFound)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	contentType := aws.ToString(out.ContentType)
	if contentType == "" {
		contentType = storage.ContentTypeByPath(key)
	}

	return out.Body, contentType, nil
}

// Delete reports false when the object did not exist.
func (s *Storage) Delete(ctx context.Context, key string) (bool, error) {
	op := pkg + "Delete"

	exists, err := s.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return false, nil
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	op := pkg + "Exists"

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
