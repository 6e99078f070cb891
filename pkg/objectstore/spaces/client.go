// Package spaces provides an objectstore.Client backed by an S3 compatible
// bucket such as DigitalOcean Spaces.
package spaces

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"portal/pkg/domain"
	"portal/pkg/objectstore"
	"portal/pkg/serrors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

const defaultRegion = "us-east-1"

// Options configure the bucket connection.
type Options struct {
	// Endpoint is the provider endpoint, e.g. https://nyc3.digitaloceanspaces.com.
	Endpoint string
	// Region is passed to request signing. Spaces accepts us-east-1 for every region.
	Region string
	// Bucket is the bucket holding the documents.
	Bucket    string
	AccessKey string
	SecretKey string
	// MaxAttempts bounds SDK level retries. Zero leaves retries to the caller.
	MaxAttempts int
	// HTTPClient overrides the SDK HTTP client. Nil uses the SDK default.
	HTTPClient *http.Client
}

// Client issues HEAD requests against the documents bucket. It is safe for
// concurrent use.
type Client struct {
	bucket string
	s3     *s3.Client
}

// New builds a path-style S3 client for the configured endpoint.
func New(opts Options) (*Client, error) {
	if opts.Bucket == "" {
		return nil, errors.New("bucket is required")
	}

	region := opts.Region
	if region == "" {
		region = defaultRegion
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	options := s3.Options{
		Region:           region,
		Credentials:      credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		UsePathStyle:     true,
		RetryMaxAttempts: maxAttempts,
	}
	if opts.Endpoint != "" {
		options.BaseEndpoint = aws.String(normalizeEndpoint(opts.Endpoint))
	}
	if opts.HTTPClient != nil {
		options.HTTPClient = opts.HTTPClient
	}

	return &Client{
		bucket: opts.Bucket,
		s3:     s3.New(options),
	}, nil
}

// Stat returns the size, content type and modification time of key.
func (c *Client) Stat(ctx context.Context, key string) (*domain.ObjectInfo, error) {
	out, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapError(key, err)
	}

	return &domain.ObjectInfo{
		Size:         aws.ToInt64(out.ContentLength),
		ContentType:  aws.ToString(out.ContentType),
		LastModified: aws.ToTime(out.LastModified).UTC(),
	}, nil
}

type statusCoder interface {
	HTTPStatusCode() int
}

func mapError(key string, err error) error {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return serrors.Wrap(serrors.ErrNotFound, err, "object %q not found", key)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return serrors.Wrap(serrors.ErrNotFound, err, "object %q not found", key)
		case "SlowDown":
			return serrors.Wrap(serrors.ErrRateLimited, err, "object storage asked to slow down")
		}
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		switch sc.HTTPStatusCode() {
		case http.StatusNotFound:
			return serrors.Wrap(serrors.ErrNotFound, err, "object %q not found", key)
		case http.StatusTooManyRequests, http.StatusServiceUnavailable:
			return serrors.Wrap(serrors.ErrRateLimited, err, "object storage asked to slow down")
		case http.StatusForbidden:
			return serrors.Wrap(serrors.ErrForbidden, err, "access to object %q denied", key)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return serrors.Wrap(serrors.ErrTimeout, err, "object storage timed out")
	}

	return fmt.Errorf("could not stat object %q: %w", key, err)
}

func normalizeEndpoint(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}

	return "https://" + endpoint
}

// Ensure Client conforms to the objectstore.Client interface at compile time.
var _ objectstore.Client = (*Client)(nil)
