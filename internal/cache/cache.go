package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gencapp/genc/pkg/models"
)

// Cache provides caching functionality using Redis
type Cache struct {
	client *redis.Client
}

// NewCache creates a new cache instance
func NewCache(host string, port int, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping checks the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Profile Cache Operations

// SetProfile caches a user profile
func (c *Cache) SetProfile(ctx context.Context, profile *models.UserProfile, ttl time.Duration) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	key := fmt.Sprintf("profile:%s", profile.UID)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetProfile retrieves a user profile from cache
func (c *Cache) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	key := fmt.Sprintf("profile:%s", uid)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get profile from cache: %w", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

// DeleteProfile removes a profile from cache
func (c *Cache) DeleteProfile(ctx context.Context, uid string) error {
	key := fmt.Sprintf("profile:%s", uid)
	return c.client.Del(ctx, key).Err()
}

// Access Scope Cache Operations

// SetAccessScope caches the accessible-coach set for a user
func (c *Cache) SetAccessScope(ctx context.Context, uid string, coaches []string, ttl time.Duration) error {
	data, err := json.Marshal(coaches)
	if err != nil {
		return fmt.Errorf("failed to marshal access scope: %w", err)
	}

	key := fmt.Sprintf("access:%s", uid)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetAccessScope retrieves the accessible-coach set from cache.
// Returns found=false on a miss so an empty cached scope stays distinguishable.
func (c *Cache) GetAccessScope(ctx context.Context, uid string) ([]string, bool, error) {
	key := fmt.Sprintf("access:%s", uid)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil // Cache miss
		}
		return nil, false, fmt.Errorf("failed to get access scope from cache: %w", err)
	}

	var coaches []string
	if err := json.Unmarshal(data, &coaches); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal access scope: %w", err)
	}

	return coaches, true, nil
}

// DeleteAccessScope removes the accessible-coach set from cache
func (c *Cache) DeleteAccessScope(ctx context.Context, uid string) error {
	key := fmt.Sprintf("access:%s", uid)
	return c.client.Del(ctx, key).Err()
}

// Collection Cache Operations

// SetCollections caches a user's visible collection list
func (c *Cache) SetCollections(ctx context.Context, uid string, collections []*models.Collection, ttl time.Duration) error {
	data, err := json.Marshal(collections)
	if err != nil {
		return fmt.Errorf("failed to marshal collections: %w", err)
	}

	key := fmt.Sprintf("collections:%s", uid)
	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetCollections retrieves a user's visible collection list from cache
func (c *Cache) GetCollections(ctx context.Context, uid string) ([]*models.Collection, error) {
	key := fmt.Sprintf("collections:%s", uid)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get collections from cache: %w", err)
	}

	var collections []*models.Collection
	if err := json.Unmarshal(data, &collections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collections: %w", err)
	}

	return collections, nil
}

// DeleteCollections removes a user's collection list from cache
func (c *Cache) DeleteCollections(ctx context.Context, uid string) error {
	key := fmt.Sprintf("collections:%s", uid)
	return c.client.Del(ctx, key).Err()
}
