package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioBackend — объектное хранилище MinIO.
type MinioBackend struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioBackend подключается к MinIO и создаёт bucket, если его нет.
//
// publicURL — префикс, под которым bucket доступен браузеру
// (например https://cdn.example.com/devlog). Пустой — http(s)://endpoint/bucket.
func NewMinioBackend(ctx context.Context, endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool) (*MinioBackend, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	if publicURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + endpoint + "/" + bucket
	}

	return &MinioBackend{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (b *MinioBackend) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return b.publicURL + "/" + key, nil
}

func (b *MinioBackend) Remove(ctx context.Context, ref string) error {
	key, err := keyFromRef(b.publicURL, ref)
	if err != nil {
		return err
	}
	return b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{})
}
