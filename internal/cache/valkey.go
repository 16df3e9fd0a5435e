package cache

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type ValkeyClient struct {
	client       *redis.Client
	usersHashKey string
	availTTL     time.Duration
}

func NewValkeyClient() (*ValkeyClient, error) {
	addr := os.Getenv("VALKEY_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	password := os.Getenv("VALKEY_PASSWORD")
	usersHashKey := os.Getenv("VALKEY_USERS_HASH_KEY")
	if usersHashKey == "" {
		usersHashKey = "users:auth"
	}

	availTTL := 30 * time.Second
	if val := os.Getenv("VALKEY_AVAILABILITY_TTL"); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			availTTL = parsed
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{
		client:       rdb,
		usersHashKey: usersHashKey,
		availTTL:     availTTL,
	}, nil
}

// GetUserIDByAuth looks up an operator by email and password hash in the
// auth cache.
func (v *ValkeyClient) GetUserIDByAuth(ctx context.Context, email, passwordHash string) (int64, error) {
	authString := fmt.Sprintf("%s:%s", email, passwordHash)
	cacheKey := base64.StdEncoding.EncodeToString([]byte(authString))

	userIDStr, err := v.client.HGet(ctx, v.usersHashKey, cacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, fmt.Errorf("user not found in cache")
		}
		return 0, fmt.Errorf("cache lookup error: %w", err)
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID in cache: %w", err)
	}

	return userID, nil
}

func availabilityKey(transportID int64) string {
	return fmt.Sprintf("transport:%d:availability", transportID)
}

// GetAvailabilityRaw returns the cached availability JSON for a leg, if any.
// Raw JSON is stored to skip an unmarshal/marshal round-trip on cache hits.
func (v *ValkeyClient) GetAvailabilityRaw(ctx context.Context, transportID int64) ([]byte, error) {
	data, err := v.client.Get(ctx, availabilityKey(transportID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("availability not cached")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

// SetAvailability caches a leg's availability with a short TTL. Errors are
// returned but callers treat the cache as best effort.
func (v *ValkeyClient) SetAvailability(ctx context.Context, transportID int64, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal availability: %w", err)
	}
	return v.client.Set(ctx, availabilityKey(transportID), data, v.availTTL).Err()
}

// InvalidateAvailability drops the cached availability for a leg. Called on
// every seat write so readers never see a stale count past the TTL window.
func (v *ValkeyClient) InvalidateAvailability(ctx context.Context, transportIDs ...int64) error {
	if len(transportIDs) == 0 {
		return nil
	}
	keys := make([]string, len(transportIDs))
	for i, id := range transportIDs {
		keys[i] = availabilityKey(id)
	}
	return v.client.Del(ctx, keys...).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
