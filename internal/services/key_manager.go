package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prudhvinik1/deviceprov/internal/appkey"
	"github.com/prudhvinik1/deviceprov/internal/models"
	"github.com/prudhvinik1/deviceprov/internal/repositories"
	"github.com/prudhvinik1/deviceprov/internal/utils"
)

var ErrInvalidClient = errors.New("invalid client credentials")

// KeyManager registers the device-type application with the token service
// and hands back its consumer key and secret.
type KeyManager struct {
	repo repositories.ApplicationKeyRepository
	now  func() time.Time
}

func NewKeyManager(repo repositories.ApplicationKeyRepository) *KeyManager {
	return &KeyManager{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// GenerateAndRetrieveApplicationKeys returns the stored application key for
// the device type, creating it when none exists yet. When another process
// wins the creation race its key is returned instead.
func (m *KeyManager) GenerateAndRetrieveApplicationKeys(ctx context.Context, req appkey.Request) (*models.ApplicationKey, error) {
	if req.DeviceType == "" || req.KeyType == "" {
		return nil, fmt.Errorf("device type and key type are required")
	}

	existing, err := m.repo.GetApplication(ctx, req.DeviceType, req.KeyType)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up application key: %w", err)
	}

	secret, err := utils.GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate consumer secret: %w", err)
	}
	hashed, err := utils.HashSecret(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash consumer secret: %w", err)
	}

	now := m.now()
	key := &models.ApplicationKey{
		ConsumerKey:    strings.ReplaceAll(uuid.NewString(), "-", ""),
		ConsumerSecret: secret,
		DeviceType:     req.DeviceType,
		KeyType:        req.KeyType,
		Owner:          req.Username,
		Tags:           append([]string(nil), req.Tags...),
		CreatedAt:      now,
	}

	// The client credential goes first so a visible application key is
	// always verifiable by the token service.
	err = m.repo.SaveClientCredential(ctx, &models.ClientCredential{
		ConsumerKey: key.ConsumerKey,
		SecretHash:  hashed,
		DeviceType:  req.DeviceType,
		CreatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register client credential: %w", err)
	}

	created, err := m.repo.CreateApplication(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create application key: %w", err)
	}
	if !created {
		winner, err := m.repo.GetApplication(ctx, req.DeviceType, req.KeyType)
		if err != nil {
			return nil, fmt.Errorf("failed to read concurrently created application key: %w", err)
		}
		return winner, nil
	}

	return key, nil
}

// VerifyClient checks a consumer key/secret pair. It returns ErrInvalidClient
// for unknown keys and wrong secrets.
func (m *KeyManager) VerifyClient(ctx context.Context, consumerKey, consumerSecret string) error {
	cred, err := m.repo.GetClientCredential(ctx, consumerKey)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrInvalidClient
	}
	if err != nil {
		return fmt.Errorf("failed to get client credential: %w", err)
	}

	if !utils.CheckSecret(cred.SecretHash, consumerSecret) {
		return ErrInvalidClient
	}
	return nil
}
