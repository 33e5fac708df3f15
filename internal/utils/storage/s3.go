package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var AllowImage = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

var (
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrStorageDisabled    = errors.New("object storage is not configured")
)

type (
	AwsS3 interface {
		UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	S3Config struct {
		Bucket    string
		Region    string
		AccessKey string
		SecretKey string
		Endpoint  string
	}

	awsS3 struct {
		client *s3.Client
		cfg    S3Config
	}
)

// NewAwsS3 builds a client from static keys when given, falling back to the
// default AWS credential chain otherwise.
func NewAwsS3(ctx context.Context, cfg S3Config) (AwsS3, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &awsS3{client: client, cfg: cfg}, nil
}

func (s *awsS3) UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if err := checkContentType(contentType, allowed); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	objectKey := ObjectKey(folder, fileName, filepath.Ext(file.Filename))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(objectKey),
		Body:          src,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(file.Size),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", objectKey, err)
	}
	return objectKey, nil
}

func (s *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (s *awsS3) GetPublicLinkKey(objectKey string) string {
	return publicBase(s.cfg) + objectKey
}

func (s *awsS3) GetObjectKeyFromLink(link string) string {
	base := publicBase(s.cfg)
	if !strings.HasPrefix(link, base) {
		return ""
	}
	return strings.TrimPrefix(link, base)
}

// ObjectKey places name under folder with a random suffix so re-uploads
// never overwrite each other.
func ObjectKey(folder, name, ext string) string {
	key := fmt.Sprintf("%s-%s%s", name, uuid.NewString(), strings.ToLower(ext))
	if folder == "" {
		return key
	}
	return folder + "/" + key
}

func publicBase(cfg S3Config) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket + "/"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", cfg.Bucket, cfg.Region)
}

func checkContentType(contentType string, allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(contentType, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrFileTypeNotAllowed, contentType)
}
