// Package images hosts product images in S3-compatible object storage.
//
// An uploaded image is addressed by its public id (the object key), which is
// what the catalog stores to delete the object later, and by a public URL
// that clients render.
package images

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/biscotto/internal/common"
	"github.com/google/uuid"
)

// Uploaded describes a stored image.
type Uploaded struct {
	URL      string
	PublicID string
}

// Store is the image hosting capability used by the catalog.
type Store interface {
	Upload(ctx context.Context, data []byte, contentType string) (*Uploaded, error)
	Delete(ctx context.Context, publicID string) error
}

// objectAPI is the subset of *s3.Client the store needs.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Options configures an S3Store.
type Options struct {
	AccessKey    string
	SecretKey    string
	Region       string
	Bucket       string
	BaseEndpoint string
	// PublicURL prefixes object keys in returned URLs. When empty URLs are
	// built path-style from BaseEndpoint and Bucket.
	PublicURL string
	// Timeout bounds every object storage call; zero means no limit.
	Timeout time.Duration
}

// S3Store implements Store on top of S3 or MinIO.
type S3Store struct {
	client    objectAPI
	bucket    string
	publicURL string
	timeout   time.Duration
}

// NewS3Store builds an S3 client from static credentials.
func NewS3Store(ctx context.Context, o Options) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			o.AccessKey,
			o.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
		}
		so.UsePathStyle = true
	})

	return newS3Store(client, o), nil
}

func newS3Store(client objectAPI, o Options) *S3Store {
	public := o.PublicURL
	if public == "" {
		public = strings.TrimRight(o.BaseEndpoint, "/") + "/" + o.Bucket
	}
	return &S3Store{
		client:    client,
		bucket:    o.Bucket,
		publicURL: strings.TrimRight(public, "/"),
		timeout:   o.Timeout,
	}
}

// NewObjectKey returns a fresh, date-partitioned key for an image.
func NewObjectKey(contentType string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("products/%d/%02d/%02d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), extension(contentType))
}

func extension(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "image/avif":
		return ".avif"
	}
	return ""
}

func (s *S3Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// URLFor returns the public URL of publicID.
func (s *S3Store) URLFor(publicID string) string {
	return s.publicURL + "/" + publicID
}

// Upload stores data under a new key. Failures wrap common.ErrorUpstream.
func (s *S3Store) Upload(ctx context.Context, data []byte, contentType string) (*Uploaded, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := NewObjectKey(contentType)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: put object: %v", common.ErrorUpstream, err)
	}

	return &Uploaded{URL: s.URLFor(key), PublicID: key}, nil
}

// Delete removes publicID. Deleting a missing object is not an error.
func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("%w: delete object: %v", common.ErrorUpstream, err)
	}
	return nil
}
