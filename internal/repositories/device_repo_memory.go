package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/prudhvinik1/deviceprov/internal/models"
)

// MemoryDeviceRegistry is the in-process registry used in development and tests.
type MemoryDeviceRegistry struct {
	mu      sync.RWMutex
	devices map[models.DeviceIdentifier]*models.Device
	order   []models.DeviceIdentifier
	now     func() time.Time
}

func NewMemoryDeviceRegistry() *MemoryDeviceRegistry {
	return &MemoryDeviceRegistry{
		devices: make(map[models.DeviceIdentifier]*models.Device),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryDeviceRegistry) IsEnrolled(_ context.Context, id models.DeviceIdentifier) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dev, ok := r.devices[id]
	return ok && dev.Enrollment.Status != models.StatusRemoved, nil
}

func (r *MemoryDeviceRegistry) Enroll(_ context.Context, device *models.Device) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := device.Identifier()
	if _, exists := r.devices[id]; exists {
		return false, nil
	}
	stored := *device
	r.devices[id] = &stored
	r.order = append(r.order, id)
	return true, nil
}

func (r *MemoryDeviceRegistry) Disenroll(_ context.Context, id models.DeviceIdentifier) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dev, ok := r.devices[id]
	if !ok || dev.Enrollment.Status == models.StatusRemoved {
		return false, nil
	}
	dev.Enrollment.Status = models.StatusRemoved
	dev.Enrollment.LastUpdatedAt = r.now()
	return true, nil
}

func (r *MemoryDeviceRegistry) Modify(_ context.Context, device *models.Device) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dev, ok := r.devices[device.Identifier()]
	if !ok || dev.Enrollment.Status == models.StatusRemoved {
		return false, nil
	}
	dev.Name = device.Name
	dev.Enrollment.Status = device.Enrollment.Status
	dev.Enrollment.LastUpdatedAt = device.Enrollment.LastUpdatedAt
	return true, nil
}

func (r *MemoryDeviceRegistry) Get(_ context.Context, id models.DeviceIdentifier) (*models.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dev, ok := r.devices[id]
	if !ok || dev.Enrollment.Status == models.StatusRemoved {
		return nil, ErrNotFound
	}
	out := *dev
	return &out, nil
}

func (r *MemoryDeviceRegistry) ListByOwner(_ context.Context, owner string) ([]*models.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var devices []*models.Device
	for _, id := range r.order {
		dev := r.devices[id]
		if dev.Enrollment.Owner != owner {
			continue
		}
		out := *dev
		devices = append(devices, &out)
	}
	return devices, nil
}

// Count returns the number of stored records, removed ones included.
func (r *MemoryDeviceRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}
