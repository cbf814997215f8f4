package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore stores images in a MinIO (or S3-compatible) bucket.
type MinioStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinioStore connects to MinIO and ensures the bucket exists. endpoint is
// host:port, e.g. "127.0.0.1:9000". publicBase is the externally reachable
// base URL the returned object URLs are built from.
func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, publicBase string) (*MinioStore, error) {
	c, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := c.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &MinioStore{
		client:     c,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

func (m *MinioStore) Put(ctx context.Context, prefix, contentType string, r io.Reader, size int64) (string, error) {
	if err := ValidateImage(contentType, size); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s-%s%s", sanitizeKey(prefix), randomHex(4), extForContentType(contentType))

	_, err := m.client.PutObject(ctx, m.bucket, key, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}

	u, err := url.Parse(m.publicBase)
	if err != nil {
		return "", err
	}
	u.Path = path.Join(u.Path, m.bucket, key)
	return u.String(), nil
}
