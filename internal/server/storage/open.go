package storage

import (
	"context"
	"fmt"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/config"
)

// Open собирает Store по секции uploads конфига.
func Open(ctx context.Context, cfg config.UploadsConfig) (*Store, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.Driver {
	case "local", "":
		backend, err = NewLocalBackend(cfg.Dir, cfg.PublicURL)
	case "minio":
		backend, err = NewMinioBackend(ctx, cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Bucket, cfg.PublicURL, cfg.UseSSL)
	case "s3":
		backend, err = NewS3Backend(ctx, cfg.Endpoint, cfg.Region, cfg.AccessKey, cfg.SecretKey, cfg.Bucket, cfg.PublicURL)
	default:
		return nil, fmt.Errorf("unknown uploads driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return NewStore(backend, cfg.MaxBytes), nil
}
