package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Backend — любое S3-совместимое хранилище (AWS, Yandex Object Storage, MinIO в S3-режиме).
type S3Backend struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3Backend собирает клиента из статических ключей.
// endpoint можно не задавать для настоящего AWS, тогда publicURL обязателен.
func NewS3Backend(ctx context.Context, endpoint, region, accessKey, secretKey, bucket, publicURL string) (*S3Backend, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	if publicURL == "" {
		if endpoint == "" {
			return nil, fmt.Errorf("s3: public_url is required without endpoint")
		}
		publicURL = strings.TrimRight(endpoint, "/") + "/" + bucket
	}

	return &S3Backend{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (b *S3Backend) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", err
	}
	return b.publicURL + "/" + key, nil
}

func (b *S3Backend) Remove(ctx context.Context, ref string) error {
	key, err := keyFromRef(b.publicURL, ref)
	if err != nil {
		return err
	}
	_, err = b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	return err
}
