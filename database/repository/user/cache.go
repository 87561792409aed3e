package userRepo

import (
	"context"
	"encoding/json"
	"time"

	"medibook/models"
	"medibook/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// cachedUserRepo serves ListProviders from Redis for a short TTL.
// Cache failures fall through to the wrapped repository.
type cachedUserRepo struct {
	UserRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepo wraps repo with a Redis provider-list cache. A nil client
// returns repo unchanged.
func NewCachedUserRepo(repo UserRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) UserRepository {
	if cache == nil || ttl <= 0 {
		return repo
	}
	return &cachedUserRepo{UserRepository: repo, cache: cache, ttl: ttl, logger: logger}
}

func (r *cachedUserRepo) ListProviders(ctx context.Context) ([]models.Provider, error) {
	raw, err := r.cache.Get(ctx, utils.ProvidersCacheKey).Bytes()
	if err == nil {
		var providers []models.Provider
		if jsonErr := json.Unmarshal(raw, &providers); jsonErr == nil {
			return providers, nil
		}
		r.logger.Warn("discarding unreadable provider cache entry")
	} else if err != redis.Nil {
		r.logger.Warn("provider cache read failed", zap.Error(err))
	}

	providers, err := r.UserRepository.ListProviders(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(providers); err == nil {
		if err := r.cache.Set(ctx, utils.ProvidersCacheKey, data, r.ttl).Err(); err != nil {
			r.logger.Warn("provider cache write failed", zap.Error(err))
		}
	}
	return providers, nil
}
