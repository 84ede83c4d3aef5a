// Package ingest manages the knowledge-base source documents: uploading and
// deleting PDFs in S3 and triggering knowledge-base re-indexing afterwards.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hearthside/carekb/internal/log"
)

const pdfContentType = "application/pdf"

// S3API is the subset of the S3 client the bucket wrapper uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Bucket wraps one S3 bucket holding the knowledge-base source documents.
// uploadEnabled and deleteEnabled gate the mutating calls; when disabled the
// operation is logged and reported as successful (dry-run).
type Bucket struct {
	client        S3API
	name          string
	uploadEnabled bool
	deleteEnabled bool
	logger        log.Logger
}

// NewBucket creates a bucket wrapper.
func NewBucket(client S3API, name string, uploadEnabled, deleteEnabled bool, logger log.Logger) *Bucket {
	return &Bucket{
		client:        client,
		name:          name,
		uploadEnabled: uploadEnabled,
		deleteEnabled: deleteEnabled,
		logger:        logger,
	}
}

// Name returns the bucket name.
func (b *Bucket) Name() string { return b.name }

// Upload stores a local file under folder/<basename> and returns the key.
func (b *Bucket) Upload(ctx context.Context, localPath, folder string) (string, error) {
	key := filepath.Base(localPath)
	if folder != "" {
		key = strings.Trim(folder, "/") + "/" + key
	}

	if !b.uploadEnabled {
		b.logger.Info("upload disabled, dry run",
			"file", localPath, "destination", "s3://"+b.name+"/"+key)
		return key, nil
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(pdfContentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", localPath, err)
	}
	return key, nil
}

// Delete removes one object.
func (b *Bucket) Delete(ctx context.Context, key string) error {
	if !b.deleteEnabled {
		b.logger.Info("delete disabled, dry run", "key", key)
		return nil
	}

	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// ListKeys returns every object key under a prefix, following pagination.
func (b *Bucket) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var token *string
	for {
		out, err := b.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(b.name),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list %q: %w", prefix, err)
		}
		for _, obj := range out.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
		if !aws.ToBool(out.IsTruncated) {
			return keys, nil
		}
		token = out.NextContinuationToken
	}
}

// FolderExists reports whether any object lives under the folder prefix.
func (b *Bucket) FolderExists(ctx context.Context, folder string) (bool, error) {
	out, err := b.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(b.name),
		Prefix:  aws.String(strings.Trim(folder, "/") + "/"),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("check folder %q: %w", folder, err)
	}
	return len(out.Contents) > 0, nil
}

// CreateFolder creates an S3 "folder" by writing a zero-byte placeholder
// object with a trailing slash.
func (b *Bucket) CreateFolder(ctx context.Context, folder string) error {
	key := strings.Trim(folder, "/") + "/"

	if !b.uploadEnabled {
		b.logger.Info("upload disabled, dry run", "folder", key)
		return nil
	}

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("create folder %q: %w", folder, err)
	}
	return nil
}
