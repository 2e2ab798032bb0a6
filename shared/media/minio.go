package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MaxFileSize bounds every upload.
const MaxFileSize = 10 << 20

var (
	ErrUnsupportedMedia = errors.New("only image uploads are supported")
	ErrFileTooLarge     = errors.New("file exceeds the maximum upload size")
	ErrEmptyFile        = errors.New("file is empty")
)

// File is an upload received from a client.
type File struct {
	Reader   io.Reader
	Size     int64
	Filename string
}

// Uploader stores a file and returns a stable public URL for it.
type Uploader interface {
	Upload(ctx context.Context, folder string, file File) (string, error)
}

// Config holds the S3-compatible object storage settings.
type Config struct {
	Endpoint  string `env:"ENDPOINT"   envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"SECRET_KEY" envDefault:"minioadmin"`
	Bucket    string `env:"BUCKET"     envDefault:"strive-blog"`
	UseSSL    bool   `env:"USE_SSL"`
	// PublicURL overrides the base of returned URLs, e.g. a CDN in front of the bucket.
	PublicURL string `env:"PUBLIC_URL"`
}

// MinIOStorage uploads images to MinIO or any S3-compatible host.
type MinIOStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

const publicReadPolicy = `{
	"Version": "2012-10-17",
	"Statement": [{
		"Effect": "Allow",
		"Principal": {"AWS": ["*"]},
		"Action": ["s3:GetObject"],
		"Resource": ["arn:aws:s3:::%s/*"]
	}]
}`

// NewMinIOStorage connects to the storage host and makes sure the bucket exists and
// is publicly readable.
func NewMinIOStorage(ctx context.Context, cfg Config) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		if err := client.SetBucketPolicy(ctx, cfg.Bucket, fmt.Sprintf(publicReadPolicy, cfg.Bucket)); err != nil {
			return nil, fmt.Errorf("failed to set bucket policy: %w", err)
		}
	}

	baseURL := cfg.PublicURL
	if baseURL == "" {
		baseURL = client.EndpointURL().String()
	}

	return &MinIOStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Upload stores file under folder with a random name and returns its URL.
func (s *MinIOStorage) Upload(ctx context.Context, folder string, file File) (string, error) {
	data, contentType, err := ReadImage(file)
	if err != nil {
		return "", err
	}

	key := path.Join(folder, uuid.NewString()+mimetype.Lookup(contentType).Extension())

	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key), nil
}

// ReadImage reads the whole file and sniffs its content type, rejecting anything that
// is not an image or is larger than MaxFileSize.
func ReadImage(file File) ([]byte, string, error) {
	if file.Size > MaxFileSize {
		return nil, "", ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file.Reader, MaxFileSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}

	if len(data) == 0 {
		return nil, "", ErrEmptyFile
	}
	if len(data) > MaxFileSize {
		return nil, "", ErrFileTooLarge
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, "", fmt.Errorf("%w: got %s", ErrUnsupportedMedia, mime.String())
	}

	return data, mime.String(), nil
}
