package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoptimizer/internal/models"
	"invoptimizer/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "invoptimizer"

type CacheService interface {
	// Dashboard caching
	GetDashboard(ctx context.Context) (*models.Dashboard, error)
	SetDashboard(ctx context.Context, dashboard *models.Dashboard, ttl time.Duration) error
	InvalidateDashboard(ctx context.Context) error

	// Inventory caching
	GetInventory(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error)
	SetInventory(ctx context.Context, item *models.InventoryItem, ttl time.Duration) error
	DeleteInventory(ctx context.Context, itemID uuid.UUID) error

	// Cache invalidation
	InvalidateAll(ctx context.Context) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisCacheService connects to addr, which may carry a redis:// or rediss:// scheme.
// An unreachable server is logged, not fatal; every call then reports its own error.
func NewRedisCacheService(addr, password string, db int, log *logger.Logger) CacheService {
	parsedAddr := addr
	for _, scheme := range []string{"redis://", "rediss://"} {
		parsedAddr = strings.TrimPrefix(parsedAddr, scheme)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	log = log.WithComponent("cache")
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warnw("redis ping failed on initialization", "addr", parsedAddr, "error", err)
	} else {
		log.Debugw("redis connection established", "addr", parsedAddr)
	}

	return &redisCacheService{client: client, log: log}
}

func dashboardKey() string {
	return keyPrefix + ":dashboard"
}

func inventoryKey(itemID uuid.UUID) string {
	return fmt.Sprintf("%s:inventory:%s", keyPrefix, itemID.String())
}

func (r *redisCacheService) GetDashboard(ctx context.Context) (*models.Dashboard, error) {
	var dashboard models.Dashboard
	found, err := r.getJSON(ctx, dashboardKey(), &dashboard)
	if err != nil || !found {
		return nil, err
	}
	return &dashboard, nil
}

func (r *redisCacheService) SetDashboard(ctx context.Context, dashboard *models.Dashboard, ttl time.Duration) error {
	return r.setJSON(ctx, dashboardKey(), dashboard, ttl)
}

func (r *redisCacheService) InvalidateDashboard(ctx context.Context) error {
	return r.client.Del(ctx, dashboardKey()).Err()
}

func (r *redisCacheService) GetInventory(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	found, err := r.getJSON(ctx, inventoryKey(itemID), &item)
	if err != nil || !found {
		return nil, err
	}
	return &item, nil
}

func (r *redisCacheService) SetInventory(ctx context.Context, item *models.InventoryItem, ttl time.Duration) error {
	return r.setJSON(ctx, inventoryKey(item.ID), item, ttl)
}

func (r *redisCacheService) DeleteInventory(ctx context.Context, itemID uuid.UUID) error {
	return r.client.Del(ctx, inventoryKey(itemID)).Err()
}

func (r *redisCacheService) InvalidateAll(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPrefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// getJSON reports found=false on a cache miss.
func (r *redisCacheService) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// A value we cannot decode is as good as absent.
		r.log.Warnw("dropping undecodable cache entry", "key", key, "error", err)
		_ = r.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}
