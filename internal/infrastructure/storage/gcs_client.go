package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"reqmarket/pkg/errors"
)

const publicURLPrefix = "https://storage.googleapis.com/"

// Folders accepted by UploadImage.
const (
	FolderRequests = "requests"
	FolderOffers   = "offers"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName string, credentialsPath string) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// objectName builds public/<folder>/<uuid>-<timestamp><ext> for an image upload.
func objectName(folder, contentType string, now time.Time) (string, error) {
	if folder != FolderRequests && folder != FolderOffers {
		return "", errors.BadRequest("Unknown upload folder: "+folder, nil)
	}
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", errors.BadRequest("Unsupported image type: "+contentType, nil)
	}
	return fmt.Sprintf("public/%s/%s-%s%s", folder, uuid.New().String(), now.Format("20060102150405"), ext), nil
}

func (c *CloudStorageClient) UploadImage(ctx context.Context, file io.Reader, contentType, folder string) (string, error) {
	name, err := objectName(folder, contentType, time.Now().UTC())
	if err != nil {
		return "", err
	}

	obj := c.client.Bucket(c.bucketName).Object(name)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return "", errors.Internal("Failed to upload image", err)
	}
	if err := wc.Close(); err != nil {
		return "", errors.Internal("Failed to upload image", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", errors.Internal("Failed to publish image", err)
	}

	return publicURLPrefix + c.bucketName + "/" + name, nil
}

// parseObjectURL extracts the object name from a public URL in bucket.
func parseObjectURL(fileURL, bucket string) (string, error) {
	if !strings.HasPrefix(fileURL, publicURLPrefix) {
		return "", errors.BadRequest("Invalid file URL", nil)
	}
	parts := strings.SplitN(strings.TrimPrefix(fileURL, publicURLPrefix), "/", 2)
	if len(parts) != 2 || parts[0] != bucket || parts[1] == "" {
		return "", errors.BadRequest("File URL does not belong to this bucket", nil)
	}
	return parts[1], nil
}

func (c *CloudStorageClient) DeleteFile(ctx context.Context, fileURL string) error {
	name, err := parseObjectURL(fileURL, c.bucketName)
	if err != nil {
		return err
	}

	if err := c.client.Bucket(c.bucketName).Object(name).Delete(ctx); err != nil {
		if err == storage.ErrObjectNotExist {
			return errors.NotFound("File", err)
		}
		return errors.Internal("Failed to delete file", err)
	}
	return nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
