package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-api/internal/database"

	"github.com/redis/go-redis/v9"
)

// RedisService provides Redis operations: payment initiation rate limiting
// and one-time credential display tokens.
type RedisService struct {
	client *redis.Client
}

// NewRedisService creates a new Redis service instance
func NewRedisService() *RedisService {
	return &RedisService{client: database.GetRedis()}
}

// ErrCredentialsNotFound is returned when a credential token is unknown,
// expired, or already consumed.
var ErrCredentialsNotFound = fmt.Errorf("credentials not found")

// OneTimeCredentials is the secret handed back after account provisioning.
// It is fetchable exactly once and expires on its own.
type OneTimeCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StoreCredentials stashes generated credentials under a display token
func (r *RedisService) StoreCredentials(token string, creds OneTimeCredentials, ttl time.Duration) error {
	ctx := context.Background()
	key := fmt.Sprintf("onetime_credentials:%s", token)

	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

// ConsumeCredentials fetches and deletes credentials in one step, so a
// token can only ever be displayed once
func (r *RedisService) ConsumeCredentials(token string) (*OneTimeCredentials, error) {
	ctx := context.Background()
	key := fmt.Sprintf("onetime_credentials:%s", token)

	data, err := r.client.GetDel(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCredentialsNotFound
		}
		return nil, err
	}

	var creds OneTimeCredentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// SetRateLimit marks an email as rate limited for checkout initiation
func (r *RedisService) SetRateLimit(email string, limitMinutes int) error {
	ctx := context.Background()
	key := fmt.Sprintf("rate_limit:initiate:%s", email)
	expire := time.Duration(limitMinutes) * time.Minute
	return r.client.Set(ctx, key, "1", expire).Err()
}

// CheckRateLimit reports whether an email is currently rate limited
func (r *RedisService) CheckRateLimit(email string) (bool, error) {
	ctx := context.Background()
	key := fmt.Sprintf("rate_limit:initiate:%s", email)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}

	return exists > 0, nil
}
