package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	apperrors "github.com/getmentor/mentor-application-api/pkg/errors"
	"github.com/getmentor/mentor-application-api/pkg/logger"
	"github.com/getmentor/mentor-application-api/pkg/metrics"
	"github.com/getmentor/mentor-application-api/pkg/retry"
	"go.uber.org/zap"
)

const (
	defaultEndpoint = "https://storage.yandexcloud.net"
	defaultRegion   = "ru-central1"
)

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ObjectPutter is the subset of the S3 API used for uploads
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures an S3-compatible storage client
type Options struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
}

// Client uploads profile images to S3-compatible object storage
type Client struct {
	s3          ObjectPutter
	bucketName  string
	endpoint    string
	retryConfig retry.Config
}

// NewClient creates an object storage client
func NewClient(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = defaultEndpoint
	}
	if opts.Region == "" {
		opts.Region = defaultRegion
	}

	s3Client := s3.New(s3.Options{
		Region:       opts.Region,
		BaseEndpoint: aws.String(opts.Endpoint),
		UsePathStyle: true,
		Credentials: credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		),
	})

	logger.Info("Object storage client initialized",
		zap.String("bucket", opts.BucketName),
		zap.String("endpoint", opts.Endpoint),
		zap.String("region", opts.Region),
	)

	return NewClientWithPutter(s3Client, opts.BucketName, opts.Endpoint)
}

// NewClientWithPutter builds a client on an existing S3 API implementation
func NewClientWithPutter(putter ObjectPutter, bucketName, endpoint string) *Client {
	return &Client{
		s3:          putter,
		bucketName:  bucketName,
		endpoint:    strings.TrimRight(endpoint, "/"),
		retryConfig: retry.StorageConfig(),
	}
}

// WithRetryConfig replaces the upload retry policy
func (c *Client) WithRetryConfig(config retry.Config) *Client {
	c.retryConfig = config
	return c
}

// ParseDataURL splits a base64 data URL into its content type and bytes.
// The declared type must be an accepted image format and match the decoded content.
func ParseDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, apperrors.InvalidInputError("profileImage", "not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, apperrors.InvalidInputError("profileImage", "malformed data URL")
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, apperrors.InvalidInputError("profileImage", "data URL is not base64")
	}
	if _, ok := extensions[contentType]; !ok {
		return "", nil, apperrors.InvalidInputError("profileImage", "unsupported content type "+contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, apperrors.InvalidInputError("profileImage", "invalid base64 payload")
	}
	if !mimetype.Detect(data).Is(contentType) {
		return "", nil, apperrors.InvalidInputError("profileImage", "content is not "+contentType)
	}
	return contentType, data, nil
}

// ObjectKey returns the storage key for an application's profile image.
// Only image types with a known extension have a key.
func ObjectKey(draftID, contentType string) (string, bool) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("applications/%s/profile.%s", draftID, ext), true
}

// UploadDataURL stores the image held in dataURL under a key derived from
// draftID and returns its public URL
func (c *Client) UploadDataURL(ctx context.Context, draftID, dataURL string) (string, error) {
	start := time.Now()
	operation := "uploadProfileImage"

	contentType, data, err := ParseDataURL(dataURL)
	if err != nil {
		c.record(operation, "error", start)
		return "", err
	}
	key, ok := ObjectKey(draftID, contentType)
	if !ok {
		c.record(operation, "error", start)
		return "", apperrors.InvalidInputError("profileImage", "unsupported content type "+contentType)
	}

	err = retry.Do(ctx, c.retryConfig, "storage."+operation, func() error {
		_, putErr := c.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(c.bucketName),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return putErr
	})

	duration := metrics.MeasureDuration(start)
	if err != nil {
		c.record(operation, "error", start)
		logger.LogAPICall("object_storage", operation, "error", duration,
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload profile image: %w", err)
	}

	c.record(operation, "success", start)
	logger.LogAPICall("object_storage", operation, "success", duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(data)),
	)

	return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucketName, key), nil
}

func (c *Client) record(operation, status string, start time.Time) {
	metrics.StorageRequestDuration.WithLabelValues(operation, status).Observe(metrics.MeasureDuration(start))
	metrics.StorageRequestTotal.WithLabelValues(operation, status).Inc()
}
