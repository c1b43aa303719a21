package repositories

import (
	"context"
	"sync"

	"github.com/prudhvinik1/deviceprov/internal/models"
)

type MemoryApplicationKeyRepository struct {
	mu           sync.RWMutex
	applications map[string]models.ApplicationKey
	clients      map[string]models.ClientCredential
}

func NewMemoryApplicationKeyRepository() *MemoryApplicationKeyRepository {
	return &MemoryApplicationKeyRepository{
		applications: make(map[string]models.ApplicationKey),
		clients:      make(map[string]models.ClientCredential),
	}
}

func (r *MemoryApplicationKeyRepository) GetApplication(_ context.Context, deviceType, keyType string) (*models.ApplicationKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.applications[applicationKey(deviceType, keyType)]
	if !ok {
		return nil, ErrNotFound
	}
	return &key, nil
}

func (r *MemoryApplicationKeyRepository) CreateApplication(_ context.Context, key *models.ApplicationKey) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := applicationKey(key.DeviceType, key.KeyType)
	if _, exists := r.applications[k]; exists {
		return false, nil
	}
	r.applications[k] = *key
	return true, nil
}

func (r *MemoryApplicationKeyRepository) SaveClientCredential(_ context.Context, cred *models.ClientCredential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clients[cred.ConsumerKey] = *cred
	return nil
}

func (r *MemoryApplicationKeyRepository) GetClientCredential(_ context.Context, consumerKey string) (*models.ClientCredential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, ok := r.clients[consumerKey]
	if !ok {
		return nil, ErrNotFound
	}
	return &cred, nil
}
