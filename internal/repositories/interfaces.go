package repositories

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/prudhvinik1/deviceprov/internal/models"
)

// DeviceRegistry is the device registry collaborator. Boolean results report
// whether the registry accepted the change; errors are storage or
// communication faults.
type DeviceRegistry interface {
	IsEnrolled(ctx context.Context, id models.DeviceIdentifier) (bool, error)
	Enroll(ctx context.Context, device *models.Device) (bool, error)
	Disenroll(ctx context.Context, id models.DeviceIdentifier) (bool, error)
	Modify(ctx context.Context, device *models.Device) (bool, error)
	Get(ctx context.Context, id models.DeviceIdentifier) (*models.Device, error)
	ListByOwner(ctx context.Context, owner string) ([]*models.Device, error)
}

// ApplicationKeyRepository persists application keys and the client
// credentials the token service checks them against.
type ApplicationKeyRepository interface {
	GetApplication(ctx context.Context, deviceType, keyType string) (*models.ApplicationKey, error)
	// CreateApplication stores key unless one already exists for the same
	// device type and key type; it reports whether key was stored.
	CreateApplication(ctx context.Context, key *models.ApplicationKey) (bool, error)
	SaveClientCredential(ctx context.Context, cred *models.ClientCredential) error
	GetClientCredential(ctx context.Context, consumerKey string) (*models.ClientCredential, error)
}
