// Package source opens import files from the local disk or from S3.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sourceplane/imagewizard/internal/loader"
	"github.com/sourceplane/imagewizard/internal/logging"
	"github.com/sourceplane/imagewizard/internal/model"
	"go.uber.org/zap"
)

const s3Scheme = "s3://"

// S3API is the subset of the S3 client used to fetch import files
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// Opener resolves import locations
type Opener struct {
	s3      S3API
	logger  *logging.Logger
	maxSize int64
}

// NewOpener creates an opener. s3Client may be nil when only local files are used.
func NewOpener(s3Client S3API, logger *logging.Logger) *Opener {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Opener{s3: s3Client, logger: logger, maxSize: loader.MaxImportFileSize}
}

// WithMaxSize sets the object size above which S3 objects are refused unread
func (o *Opener) WithMaxSize(n int64) *Opener {
	if n > 0 {
		o.maxSize = n
	}
	return o
}

// NewS3Client creates an S3 client for region. Anonymous access is used for
// public buckets; otherwise the default credential chain applies.
func NewS3Client(ctx context.Context, region string, anonymous bool) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if anonymous {
		opts = append(opts, config.WithCredentialsProvider(aws.AnonymousCredentials{}))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// IsRemote reports whether location is an s3:// URI
func IsRemote(location string) bool {
	return strings.HasPrefix(location, s3Scheme)
}

// ParseS3URI splits s3://bucket/key into bucket and key
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 URI: %s", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket in %s", uri)
	}
	return bucket, key, nil
}

// Open returns a reader for a local path or s3:// object
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !IsRemote(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", location, err)
		}
		return f, nil
	}

	bucket, key, err := ParseS3URI(location)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("missing object key in %s", location)
	}
	if o.s3 == nil {
		return nil, fmt.Errorf("no S3 client configured for %s", location)
	}

	o.logger.Debug("s3 get object", zap.String("bucket", bucket), zap.String("key", key))
	out, err := o.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		o.logger.Error("s3 get object failed", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to get %s: %w", location, err)
	}

	if out.ContentLength != nil && *out.ContentLength > o.maxSize {
		out.Body.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes", model.ErrRejectedFile, location, *out.ContentLength)
	}
	return out.Body, nil
}

// List expands an s3://bucket/prefix location into object URIs whose keys
// end in .json or .toml
func (o *Opener) List(ctx context.Context, location string) ([]string, error) {
	bucket, prefix, err := ParseS3URI(location)
	if err != nil {
		return nil, err
	}
	if o.s3 == nil {
		return nil, fmt.Errorf("no S3 client configured for %s", location)
	}

	var uris []string
	paginator := s3.NewListObjectsV2Paginator(o.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", location, err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			key := *obj.Key
			if strings.HasSuffix(key, ".json") || strings.HasSuffix(key, ".toml") {
				uris = append(uris, s3Scheme+bucket+"/"+key)
			}
		}
	}

	o.logger.Info("s3 list complete", zap.String("location", location), zap.Int("objects", len(uris)))
	return uris, nil
}
