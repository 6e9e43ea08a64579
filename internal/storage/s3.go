package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"lms-evaluation/internal/schemas"
)

type S3Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
	Key       string
	// UseSSL selects https for the custom endpoint.
	UseSSL bool
}

// objectAPI is the part of the S3 client the store uses.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps the list as a single JSON object, which works against AWS
// or a MinIO endpoint.
type S3Store struct {
	s3     objectAPI
	bucket string
	key    string
	logger *slog.Logger
}

func NewS3Store(ctx context.Context, c S3Config, logger *slog.Logger) (*S3Store, error) {
	if c.Bucket == "" {
		return nil, errors.New("s3 bucket is not set")
	}
	region := c.Region
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKey,
			c.SecretKey,
			"")),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			scheme := "http"
			if c.UseSSL {
				scheme = "https"
			}
			o.BaseEndpoint = aws.String(fmt.Sprintf("%s://%s", scheme, c.Endpoint))
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, c.Bucket, c.Key, logger), nil
}

func newS3Store(api objectAPI, bucket, key string, logger *slog.Logger) *S3Store {
	if key == "" {
		key = DefaultKey + ".json"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Store{s3: api, bucket: bucket, key: key, logger: logger}
}

// Ref is the s3:// URL of the stored list.
func (c *S3Store) Ref() string {
	return fmt.Sprintf("s3://%s/%s", c.bucket, c.key)
}

func (c *S3Store) Save(ctx context.Context, list []schemas.EvaluationData) error {
	b, err := encodeList(list)
	if err != nil {
		return err
	}
	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &c.bucket,
		Key:         &c.key,
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", c.Ref(), err)
	}
	c.logger.Debug("stored evaluations", slog.String("ref", c.Ref()), slog.Int("count", len(list)))
	return nil
}

func (c *S3Store) Load(ctx context.Context) ([]schemas.EvaluationData, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &c.bucket,
		Key:    &c.key,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", c.Ref(), err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.Ref(), err)
	}
	c.logger.Debug("fetched evaluations", slog.String("ref", c.Ref()))
	return decodeList(data)
}

// isNotFound reports a missing object. Some S3-compatible servers answer
// with a bare API error code instead of the typed NoSuchKey.
func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
