package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prudhvinik1/deviceprov/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	applicationKeyPrefix = "appkey:application:"
	clientKeyPrefix      = "appkey:client:"
)

type RedisApplicationKeyRepository struct {
	client *redis.Client
}

func NewRedisApplicationKeyRepository(client *redis.Client) *RedisApplicationKeyRepository {
	return &RedisApplicationKeyRepository{client: client}
}

func (r *RedisApplicationKeyRepository) GetApplication(ctx context.Context, deviceType, keyType string) (*models.ApplicationKey, error) {
	data, err := r.client.Get(ctx, applicationKey(deviceType, keyType)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application key: %w", err)
	}

	var key models.ApplicationKey
	if err := json.Unmarshal([]byte(data), &key); err != nil {
		return nil, fmt.Errorf("failed to unmarshal application key: %w", err)
	}
	return &key, nil
}

// CreateApplication uses SETNX so that concurrent creators in different
// processes agree on a single application key.
func (r *RedisApplicationKeyRepository) CreateApplication(ctx context.Context, key *models.ApplicationKey) (bool, error) {
	data, err := json.Marshal(key)
	if err != nil {
		return false, fmt.Errorf("failed to marshal application key: %w", err)
	}

	created, err := r.client.SetNX(ctx, applicationKey(key.DeviceType, key.KeyType), data, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to create application key: %w", err)
	}
	return created, nil
}

func (r *RedisApplicationKeyRepository) SaveClientCredential(ctx context.Context, cred *models.ClientCredential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal client credential: %w", err)
	}

	if err := r.client.Set(ctx, clientKeyPrefix+cred.ConsumerKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save client credential: %w", err)
	}
	return nil
}

func (r *RedisApplicationKeyRepository) GetClientCredential(ctx context.Context, consumerKey string) (*models.ClientCredential, error) {
	data, err := r.client.Get(ctx, clientKeyPrefix+consumerKey).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client credential: %w", err)
	}

	var cred models.ClientCredential
	if err := json.Unmarshal([]byte(data), &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal client credential: %w", err)
	}
	return &cred, nil
}

// Helper: build Redis key for an application
func applicationKey(deviceType, keyType string) string {
	return applicationKeyPrefix + deviceType + ":" + keyType
}
