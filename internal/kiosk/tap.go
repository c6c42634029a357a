// Package kiosk accepts RFID reads from classroom readers, journals them,
// and forwards each one to the attendance backend.
package kiosk

import (
	"context"
	"errors"
	"time"
)

const (
	StatusPending  = "pending"
	StatusRecorded = "recorded"
	StatusRejected = "rejected"
	StatusFailed   = "failed"
)

// MessageType tags tap messages on the queue.
const MessageType = "tap"

var (
	ErrUIDRequired    = errors.New("rfid uid required")
	ErrDeviceRequired = errors.New("device id required")
	ErrTapNotFound    = errors.New("tap not found")
	ErrRefreshInvalid = errors.New("refresh token invalid, expired, or already used")
)

// Tap is one card read as seen by the kiosk.
type Tap struct {
	ID          string    `json:"id"`
	RFIDUID     string    `json:"rfid_uid"`
	DeviceID    string    `json:"device_id"`
	TappedAt    time.Time `json:"tapped_at"`
	Status      string    `json:"status"`
	Code        int       `json:"code,omitempty"`
	Message     string    `json:"message,omitempty"`
	StudentName string    `json:"student_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Outcome is the forwarding result written back to a tap.
type Outcome struct {
	Status      string
	Code        int
	Message     string
	StudentName string
}

// Journal stores devices and taps.
type Journal interface {
	UpsertDevice(ctx context.Context, deviceID string) error
	SaveRefreshToken(ctx context.Context, deviceID, token string, expiresAt time.Time) error
	// ConsumeRefreshToken revokes a live token and returns its device.
	ConsumeRefreshToken(ctx context.Context, token string) (string, error)
	RecentTap(ctx context.Context, rfidUID, deviceID string, window time.Duration) (*Tap, error)
	InsertTap(ctx context.Context, tap Tap) (Tap, error)
	GetTap(ctx context.Context, id string) (Tap, error)
	UpdateTapStatus(ctx context.Context, id string, out Outcome) error
	ListTaps(ctx context.Context, deviceID string, limit, offset int) ([]Tap, error)
}
