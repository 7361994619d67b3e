package device

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Fields describes a partial device update. Nil members are left
// unchanged; LastKnownState replaces the stored state wholesale (the
// caller performs any merging before writing).
type Fields struct {
	Status          *bool
	LastKnownState  State
	FirmwareVersion *string
}

// Store defines the interface for device persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Store interface {
	// FindByID retrieves a device by its unique identifier.
	// Returns ErrDeviceNotFound if the device does not exist.
	FindByID(ctx context.Context, id string) (*Device, error)

	// List retrieves all devices.
	List(ctx context.Context) ([]Device, error)

	// Create inserts a new device.
	// Returns ErrDeviceExists if a device with the same ID already exists.
	Create(ctx context.Context, device *Device) error

	// Update applies a partial update and returns the resulting device.
	// Returns ErrDeviceNotFound if the device does not exist.
	Update(ctx context.Context, id string, fields Fields) (*Device, error)

	// Delete removes a device by ID.
	// Returns ErrDeviceNotFound if the device does not exist.
	Delete(ctx context.Context, id string) error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed store.
// The db parameter should be an open SQLite connection.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const deviceColumns = `id, name, type, status, aes_key, last_known_state,
	firmware_version, created_at, updated_at`

// FindByID retrieves a device by its unique identifier.
func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = ?`

	dev, err := scanDevice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return dev, nil
}

// List retrieves all devices.
func (s *SQLiteStore) List(ctx context.Context) ([]Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		dev, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *dev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}

	return devices, nil
}

// Create inserts a new device.
func (s *SQLiteStore) Create(ctx context.Context, dev *Device) error {
	if dev.ID == "" || dev.KeyMaterial == "" {
		return fmt.Errorf("%w: id and key material are required", ErrInvalidDevice)
	}

	stateJSON, err := json.Marshal(stateOrEmpty(dev.LastKnownState))
	if err != nil {
		return fmt.Errorf("marshalling state: %w", err)
	}

	now := time.Now().UTC()
	if dev.CreatedAt.IsZero() {
		dev.CreatedAt = now
	}
	dev.UpdatedAt = now

	query := `
		INSERT INTO devices (
			id, name, type, status, aes_key, last_known_state,
			firmware_version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		dev.ID,
		dev.Name,
		dev.Type,
		boolToInt(dev.Status),
		dev.KeyMaterial,
		string(stateJSON),
		nullableString(dev.FirmwareVersion),
		dev.CreatedAt.Format(time.RFC3339),
		dev.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDeviceExists
		}
		return fmt.Errorf("inserting device: %w", err)
	}

	return nil
}

// Update applies a partial update and returns the resulting device.
// Only the fields set in the Fields struct are written.
func (s *SQLiteStore) Update(ctx context.Context, id string, fields Fields) (*Device, error) {
	set := []string{"updated_at = ?"}
	args := []any{time.Now().UTC().Format(time.RFC3339)}

	if fields.Status != nil {
		set = append(set, "status = ?")
		args = append(args, boolToInt(*fields.Status))
	}
	if fields.LastKnownState != nil {
		stateJSON, err := json.Marshal(fields.LastKnownState)
		if err != nil {
			return nil, fmt.Errorf("marshalling state: %w", err)
		}
		set = append(set, "last_known_state = ?")
		args = append(args, string(stateJSON))
	}
	if fields.FirmwareVersion != nil {
		set = append(set, "firmware_version = ?")
		args = append(args, *fields.FirmwareVersion)
	}

	args = append(args, id)
	query := "UPDATE devices SET " + strings.Join(set, ", ") + " WHERE id = ?"

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrDeviceNotFound
	}

	return s.FindByID(ctx, id)
}

// Delete removes a device by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDevice scans a row or rows result into a Device.
func scanDevice(scanner rowScanner) (*Device, error) {
	var d Device
	var status int
	var stateJSON string
	var firmwareVersion sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(
		&d.ID,
		&d.Name,
		&d.Type,
		&status,
		&d.KeyMaterial,
		&stateJSON,
		&firmwareVersion,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.Status = status != 0
	if firmwareVersion.Valid {
		d.FirmwareVersion = &firmwareVersion.String
	}

	var parseErr error
	d.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	d.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	if err := json.Unmarshal([]byte(stateJSON), &d.LastKnownState); err != nil {
		return nil, fmt.Errorf("unmarshalling state: %w", err)
	}

	return &d, nil
}

// stateOrEmpty substitutes an empty map for nil so the column is always
// a valid JSON object.
func stateOrEmpty(s State) State {
	if s == nil {
		return State{}
	}
	return s
}

// nullableString returns a sql.NullString for optional string pointers.
func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// boolToInt converts a boolean to 0/1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
