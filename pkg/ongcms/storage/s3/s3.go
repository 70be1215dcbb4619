package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/vereda-ong/vereda-api/pkg/ongcms"
)

// Config options for the S3 attachment backend
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)
	PublicBaseURL   string // Optional base URL attachments are served from (CDN)
}

// Backend is an S3-compatible implementation of the
// ongcms.AttachmentStore interface. Uploaded objects get a generated key
// under the requested folder; the key doubles as the attachment's
// store-internal id used for deletion.
type Backend struct {
	client *s3.Client
	bucket string
	config Config
}

// New creates a new S3-compatible attachment store. Missing bucket or
// credentials fail here, at construction, not on first use.
func New(config Config) (*Backend, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		// Default credential chain (env, shared config, instance role).
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	return &Backend{
		client: s3.NewFromConfig(awsCfg, s3Options...),
		bucket: config.Bucket,
		config: config,
	}, nil
}

// Upload stores data under folder and returns the attachment reference.
func (b *Backend) Upload(ctx context.Context, data []byte, folder, mimeType string) (ongcms.Attachment, error) {
	key := objectKey(folder, mimeType)

	uploader := manager.NewUploader(b.client)
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if mimeType != "" {
		input.ContentType = aws.String(mimeType)
	}

	if _, err := uploader.Upload(ctx, input); err != nil {
		return ongcms.Attachment{}, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return ongcms.Attachment{
		URL: b.objectURL(key),
		ID:  key,
	}, nil
}

// Remove deletes an object by key.
func (b *Backend) Remove(ctx context.Context, id string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		// Some S3-compatible stores report deletes of missing keys as
		// NoSuchKey; removal is idempotent either way.
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

func (b *Backend) objectURL(key string) string {
	if b.config.PublicBaseURL != "" {
		return strings.TrimSuffix(b.config.PublicBaseURL, "/") + "/" + key
	}
	if b.config.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(b.config.Endpoint, "/"), b.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.bucket, b.config.Region, key)
}

// objectKey generates a unique key under folder, keeping a file extension
// inferred from the mime type so served objects get sensible names.
func objectKey(folder, mimeType string) string {
	key := strings.TrimSuffix(folder, "/") + "/" + uuid.NewString()
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		key += exts[0]
	}
	return key
}
