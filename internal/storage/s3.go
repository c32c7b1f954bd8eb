// Package storage uploads supporting documents to S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"egazette/internal/utils"
)

type DocumentStorage struct {
	client *s3.Client
	bucket string
	region string
}

func NewDocumentStorage(client *s3.Client, bucket, region string) *DocumentStorage {
	return &DocumentStorage{
		client: client,
		bucket: bucket,
		region: region,
	}
}

// Upload stores one supporting document under a per-application prefix and
// returns the storage key. The key embeds a nanoid so repeated uploads of
// the same filename never collide.
func (d *DocumentStorage) Upload(ctx context.Context, applicationID, fileName, contentType string, body io.Reader) (string, error) {
	key := path.Join("applications", applicationID, utils.NanoID()+"-"+sanitizeFileName(fileName))

	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document %s: %w", fileName, err)
	}

	return key, nil
}

func (d *DocumentStorage) Delete(ctx context.Context, storageKey string) error {
	storageKey = strings.TrimSpace(storageKey)
	if storageKey == "" {
		return nil
	}

	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(storageKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", storageKey, err)
	}
	return nil
}

// ObjectURL returns the virtual-hosted URL for a stored document.
func (d *DocumentStorage) ObjectURL(storageKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", d.bucket, d.region, storageKey)
}

// sanitizeFileName keeps keys portable: path separators and whitespace become
// dashes.
func sanitizeFileName(name string) string {
	name = path.Base(name)
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "-")
	return replacer.Replace(name)
}
