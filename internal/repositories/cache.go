package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"evmarket/internal/models"

	"github.com/redis/go-redis/v9"
)

// Default cache expiration time
const DefaultExpiration = 5 * time.Minute

// CacheRepository defines the cache operations used by the service layer.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	SetWallet(ctx context.Context, userID uint, wallet *models.Wallet) error
	DeleteWallet(ctx context.Context, userID uint) error
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) CacheRepository {
	return &redisCache{client: client}
}

func (r *redisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func walletCacheKey(userID uint) string {
	return fmt.Sprintf("wallet:user:%d", userID)
}

func (r *redisCache) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	found, err := r.Get(ctx, walletCacheKey(userID), &wallet)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, redis.Nil
	}
	return &wallet, nil
}

func (r *redisCache) SetWallet(ctx context.Context, userID uint, wallet *models.Wallet) error {
	return r.Set(ctx, walletCacheKey(userID), wallet, DefaultExpiration)
}

func (r *redisCache) DeleteWallet(ctx context.Context, userID uint) error {
	return r.Delete(ctx, walletCacheKey(userID))
}
