package storage

import (
	"context"
	"fmt"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/binovo/connector-prestashop/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New returns the image store selected by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (connector.ImageStore, error) {
	switch cfg.Driver {
	case "", config.StorageDriverMemory:
		return NewMemoryImageStore(), nil
	case config.StorageDriverS3:
		store, err := NewS3ImageStore(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
