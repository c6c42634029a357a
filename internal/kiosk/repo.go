package kiosk

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const schema = `
CREATE TABLE IF NOT EXISTS devices (
	device_id  TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS refresh_tokens (
	device_id  TEXT NOT NULL REFERENCES devices(device_id),
	token      TEXT NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	revoked    BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS rfid_taps (
	id           UUID PRIMARY KEY,
	rfid_uid     TEXT NOT NULL,
	device_id    TEXT NOT NULL,
	tapped_at    TIMESTAMPTZ NOT NULL,
	status       TEXT NOT NULL,
	code         INTEGER NOT NULL DEFAULT 0,
	message      TEXT NOT NULL DEFAULT '',
	student_name TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS rfid_taps_uid_device_idx ON rfid_taps (rfid_uid, device_id, tapped_at DESC);
`

const tapColumns = `id, rfid_uid, device_id, tapped_at, status, code, message, student_name, created_at`

// Repository journals taps in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the journal tables if they are missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *Repository) UpsertDevice(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return ErrDeviceRequired
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (device_id)
		VALUES ($1)
		ON CONFLICT (device_id) DO NOTHING
	`, deviceID)
	return err
}

func (r *Repository) SaveRefreshToken(ctx context.Context, deviceID, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (device_id, token, expires_at)
		VALUES ($1, $2, $3)
	`, deviceID, token, expiresAt)
	return err
}

func (r *Repository) ConsumeRefreshToken(ctx context.Context, token string) (string, error) {
	var deviceID string
	err := r.db.QueryRowContext(ctx, `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE token = $1 AND revoked = FALSE AND expires_at > NOW()
		RETURNING device_id
	`, token).Scan(&deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrRefreshInvalid
	}
	return deviceID, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTap(row scanner) (Tap, error) {
	var t Tap
	err := row.Scan(&t.ID, &t.RFIDUID, &t.DeviceID, &t.TappedAt, &t.Status, &t.Code, &t.Message, &t.StudentName, &t.CreatedAt)
	return t, err
}

// RecentTap returns the latest tap of a card on a device inside window.
func (r *Repository) RecentTap(ctx context.Context, rfidUID, deviceID string, window time.Duration) (*Tap, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+tapColumns+`
		FROM rfid_taps
		WHERE rfid_uid = $1 AND device_id = $2 AND tapped_at >= NOW() - ($3 * interval '1 second')
		ORDER BY tapped_at DESC
		LIMIT 1
	`, rfidUID, deviceID, window.Seconds())
	t, err := scanTap(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) InsertTap(ctx context.Context, tap Tap) (Tap, error) {
	if tap.ID == "" {
		tap.ID = uuid.NewString()
	}
	if tap.TappedAt.IsZero() {
		tap.TappedAt = time.Now().UTC()
	}
	if tap.Status == "" {
		tap.Status = StatusPending
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO rfid_taps (id, rfid_uid, device_id, tapped_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, tap.ID, tap.RFIDUID, tap.DeviceID, tap.TappedAt, tap.Status)
	if err := row.Scan(&tap.CreatedAt); err != nil {
		return Tap{}, err
	}
	return tap, nil
}

func (r *Repository) GetTap(ctx context.Context, id string) (Tap, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tapColumns+` FROM rfid_taps WHERE id = $1`, id)
	t, err := scanTap(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Tap{}, ErrTapNotFound
	}
	return t, err
}

func (r *Repository) UpdateTapStatus(ctx context.Context, id string, out Outcome) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE rfid_taps
		SET status = $2, code = $3, message = $4, student_name = $5
		WHERE id = $1
	`, id, out.Status, out.Code, out.Message, out.StudentName)
	return err
}

// ListTaps returns the newest taps first, optionally for one device.
func (r *Repository) ListTaps(ctx context.Context, deviceID string, limit, offset int) ([]Tap, error) {
	limit, offset = page(limit, offset)
	query := `SELECT ` + tapColumns + ` FROM rfid_taps`
	var args []any
	var clauses []string
	if deviceID != "" {
		args = append(args, deviceID)
		clauses = append(clauses, fmt.Sprintf("device_id = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY tapped_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Tap
	for rows.Next() {
		t, err := scanTap(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
