package s3storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"agri_trade/internal/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Options параметры подключения к S3-совместимому хранилищу
type Options struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// Storage хранит объекты галерей в бакете S3-совместимого сервиса
type Storage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func New(ctx context.Context, opts Options) (*Storage, error) {
	const op = "storage.s3.New"

	region := opts.Region
	if region == "" {
		region = "auto"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = true
	})

	return NewWithClient(client, opts.Bucket, opts.PublicBaseURL), nil
}

func NewWithClient(client *s3.Client, bucket, publicBaseURL string) *Storage {
	return &Storage{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// Upload кладёт объект под ключом key и возвращает его публичный URL
func (s *Storage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	const op = "storage.s3.Upload"

	if err := validateKey(key); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	// SDK требует seekable тело для подписи и checksum по plain HTTP
	rs, ok := body.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("%s: read body: %w", op, err)
		}
		rs = bytes.NewReader(data)
		size = int64(len(data))
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   rs,
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.PublicURL(key), nil
}

// Delete удаляет объект. Отсутствующий ключ ошибкой не считается
func (s *Storage) Delete(ctx context.Context, key string) error {
	const op = "storage.s3.Delete"

	if err := validateKey(key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.s3.Ping"

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return fmt.Errorf("%s: bucket %q: %w", op, s.bucket, storage.ErrObjectNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// PublicURL строит адрес объекта в формате публичного storage API
func (s *Storage) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.publicBaseURL, s.bucket, key)
}

func validateKey(key string) error {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return storage.ErrInvalidKey
	}
	return nil
}

// httpStatus достаёт HTTP код из ошибки SDK, 0 если его нет
func httpStatus(err error) int {
	var re interface{ HTTPStatusCode() int }
	if errors.As(err, &re) {
		return re.HTTPStatusCode()
	}
	return 0
}

// IsNotFound сообщает, что бакет или объект отсутствует
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrObjectNotFound) || httpStatus(err) == http.StatusNotFound
}
