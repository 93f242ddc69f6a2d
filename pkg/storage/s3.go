package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

const uploadPrefix = "menu-items/"

var ErrDisabled = errors.New("image storage is not configured")

// ObjectAPI is the subset of the S3 client the store uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Images stores menu item pictures in a public S3 bucket.
type Images struct {
	api    ObjectAPI
	bucket string
	region string
	log    *slog.Logger
	now    func() time.Time
}

// New builds an S3 backed store from the default AWS credential chain.
// An empty bucket yields a disabled store.
func New(ctx context.Context, bucket, region string, log *slog.Logger) (*Images, error) {
	if bucket == "" || region == "" {
		log.Info("image storage disabled - S3 bucket not configured", "required", "S3_BUCKET_NAME, AWS_REGION")
		return NewWithAPI(nil, bucket, region, log), nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	log.Info("image storage initialized", "bucket", bucket, "region", region)
	return NewWithAPI(s3.NewFromConfig(cfg), bucket, region, log), nil
}

func NewWithAPI(api ObjectAPI, bucket, region string, log *slog.Logger) *Images {
	return &Images{api: api, bucket: bucket, region: region, log: log, now: time.Now}
}

func (s *Images) Enabled() bool {
	return s.api != nil && s.bucket != ""
}

func (s *Images) baseURL() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
}

// Upload writes body under menu-items/<unix millis>-<filename> and returns its public URL.
func (s *Images) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}

	key := fmt.Sprintf("%s%d-%s", uploadPrefix, s.now().UnixMilli(), path.Base(filename))
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
		ACL:    types.ObjectCannedACLPublicRead,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.api.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.log.Info("image uploaded", "key", key)
	return s.baseURL() + (&url.URL{Path: key}).EscapedPath(), nil
}

// Delete removes the object behind imageURL. Missing objects and URLs that
// do not point into the bucket are no-ops; other failures are logged and
// swallowed so callers never fail on cleanup.
func (s *Images) Delete(ctx context.Context, imageURL string) {
	if imageURL == "" || !s.Enabled() {
		return
	}

	key, ok := s.KeyFromURL(imageURL)
	if !ok {
		s.log.Warn("unrecognized image url, skipping delete", "url", imageURL)
		return
	}

	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	switch {
	case err == nil:
		s.log.Info("image deleted", "key", key)
	case IsNotFound(err):
		s.log.Warn("image already gone", "key", key)
	default:
		s.log.Error("failed to delete image", "key", key, "error", err)
	}
}

// KeyFromURL maps a full bucket URL or a relative images/ or menu-items/ path to its object key.
func (s *Images) KeyFromURL(imageURL string) (string, bool) {
	if rest, ok := strings.CutPrefix(imageURL, s.baseURL()); ok {
		key, err := url.PathUnescape(rest)
		if err != nil || key == "" {
			return "", false
		}
		return key, true
	}
	if strings.HasPrefix(imageURL, "images/") || strings.HasPrefix(imageURL, uploadPrefix) {
		return imageURL, true
	}
	return "", false
}

func IsNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
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
