// Package deploy uploads the browser build directory to S3 so bundles
// can be served from a CDN in production.
package deploy

import (
	"context"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/remix-go/remix/internal/config"
	"github.com/remix-go/remix/internal/errors"
)

// ObjectPutter is the slice of the S3 client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader copies a local build directory into an S3 bucket.
type Uploader struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *slog.Logger
}

// New creates an Uploader with an explicit client.
func New(client ObjectPutter, bucket, prefix string, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// NewFromConfig creates an Uploader from the project's deploy settings,
// resolving AWS credentials from the default chain.
func NewFromConfig(ctx context.Context, dc config.DeployConfig, logger *slog.Logger) (*Uploader, error) {
	if dc.Bucket == "" {
		return nil, errors.New("R160").
			WithDetail("deploy.bucket is not set in remix.json").
			WithSuggestion("Add a deploy section with the target bucket")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if dc.Region != "" {
		opts = append(opts, awsconfig.WithRegion(dc.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New("R160").Wrap(err)
	}

	return New(s3.NewFromConfig(awsCfg), dc.Bucket, dc.Prefix, logger), nil
}

// UploadDir uploads every file under dir, preserving relative paths under
// the configured key prefix. It returns the number of files uploaded.
func (u *Uploader) UploadDir(ctx context.Context, dir string) (int, error) {
	uploaded := 0

	err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if u.prefix != "" {
			key = strings.TrimSuffix(u.prefix, "/") + "/" + key
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(u.bucket),
			Key:          aws.String(key),
			Body:         f,
			ContentType:  aws.String(contentTypeFor(p)),
			CacheControl: aws.String(cacheControlFor(filepath.Base(p))),
		})
		if err != nil {
			return errors.New("R160").
				WithDetail("Failed to upload " + key).
				Wrap(err)
		}

		u.logger.Debug("uploaded", "key", key)
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, err
	}

	u.logger.Info("deploy complete", "bucket", u.bucket, "files", uploaded)
	return uploaded, nil
}

// contentTypeFor resolves a content type from the file extension.
func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// cacheControlFor picks cache headers per file. Hashed bundles are
// immutable; the manifest changes on every build and must revalidate.
func cacheControlFor(name string) string {
	if name == config.ManifestFileName {
		return "no-cache"
	}
	return "public, max-age=31536000, immutable"
}
