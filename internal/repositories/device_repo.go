package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prudhvinik1/deviceprov/internal/models"
)

// PostgresDeviceRegistry keeps one row per (device_type, device_id). Removed
// devices stay as REMOVED rows so their ids can never be enrolled again.
type PostgresDeviceRegistry struct {
	pool *pgxpool.Pool
}

func NewPostgresDeviceRegistry(pool *pgxpool.Pool) *PostgresDeviceRegistry {
	return &PostgresDeviceRegistry{pool: pool}
}

const deviceColumns = `device_id, device_type, name, owner, status, ownership, enrolled_at, last_updated_at`

func (r *PostgresDeviceRegistry) IsEnrolled(ctx context.Context, id models.DeviceIdentifier) (bool, error) {
	query := `SELECT EXISTS (
	              SELECT 1 FROM devices
	              WHERE device_type = $1 AND device_id = $2 AND status <> 'REMOVED')`

	var enrolled bool
	if err := r.pool.QueryRow(ctx, query, id.Type, id.ID).Scan(&enrolled); err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return enrolled, nil
}

func (r *PostgresDeviceRegistry) Enroll(ctx context.Context, device *models.Device) (bool, error) {
	query := `INSERT INTO devices (` + deviceColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (device_type, device_id) DO NOTHING`

	result, err := r.pool.Exec(ctx, query,
		device.ID,
		device.Type,
		device.Name,
		device.Enrollment.Owner,
		string(device.Enrollment.Status),
		string(device.Enrollment.Ownership),
		device.Enrollment.EnrolledAt,
		device.Enrollment.LastUpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to enroll device: %w", err)
	}

	// zero rows means the id is already taken, including by a removed device
	return result.RowsAffected() == 1, nil
}

func (r *PostgresDeviceRegistry) Disenroll(ctx context.Context, id models.DeviceIdentifier) (bool, error) {
	query := `UPDATE devices
	          SET status = 'REMOVED', last_updated_at = $1
	          WHERE device_type = $2 AND device_id = $3 AND status <> 'REMOVED'`

	result, err := r.pool.Exec(ctx, query, time.Now().UTC(), id.Type, id.ID)
	if err != nil {
		return false, fmt.Errorf("failed to disenroll device: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

func (r *PostgresDeviceRegistry) Modify(ctx context.Context, device *models.Device) (bool, error) {
	query := `UPDATE devices
	          SET name = $1, status = $2, last_updated_at = $3
	          WHERE device_type = $4 AND device_id = $5 AND status <> 'REMOVED'`

	result, err := r.pool.Exec(ctx, query,
		device.Name,
		string(device.Enrollment.Status),
		device.Enrollment.LastUpdatedAt,
		device.Type,
		device.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to modify device: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

func (r *PostgresDeviceRegistry) Get(ctx context.Context, id models.DeviceIdentifier) (*models.Device, error) {
	query := `SELECT ` + deviceColumns + `
	          FROM devices
	          WHERE device_type = $1 AND device_id = $2 AND status <> 'REMOVED'`

	device, err := scanDevice(r.pool.QueryRow(ctx, query, id.Type, id.ID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return device, nil
}

func (r *PostgresDeviceRegistry) ListByOwner(ctx context.Context, owner string) ([]*models.Device, error) {
	query := `SELECT ` + deviceColumns + `
	          FROM devices
	          WHERE owner = $1
	          ORDER BY seq ASC`

	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	var devices []*models.Device
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, device)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating devices: %w", err)
	}

	return devices, nil
}

func scanDevice(row pgx.Row) (*models.Device, error) {
	var (
		device    models.Device
		status    string
		ownership string
	)
	err := row.Scan(
		&device.ID,
		&device.Type,
		&device.Name,
		&device.Enrollment.Owner,
		&status,
		&ownership,
		&device.Enrollment.EnrolledAt,
		&device.Enrollment.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	device.Enrollment.Status = models.EnrollmentStatus(status)
	device.Enrollment.Ownership = models.Ownership(ownership)
	return &device, nil
}
