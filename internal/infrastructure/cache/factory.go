package cache

import (
	"context"

	"github.com/binovo/connector-prestashop/internal/domain/shared"
	"github.com/binovo/connector-prestashop/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdentityStore returns a Redis store when Redis is enabled and
// reachable, an in-memory store otherwise.
func NewIdentityStore(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) shared.IdempotencyStore {
	if !cfg.Enabled {
		logger.Info("Using in-memory job identity store")
		return NewMemoryIdentityStore(0)
	}
	client, err := DialRedis(ctx, cfg.Addr(), cfg.Password, cfg.DB)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory job identity store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewMemoryIdentityStore(0)
	}
	logger.Info("Using Redis job identity store", zap.String("addr", cfg.Addr()))
	return NewRedisIdentityStore(client, "")
}
