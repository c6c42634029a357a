package kiosk

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"rfidattend/internal/metrics"
	"rfidattend/internal/queue"
)

// Service coordinates tap intake and deduplication.
type Service struct {
	journal     Journal
	queue       queue.Queue
	dedupWindow time.Duration

	// intake holds the dedup lookup and the insert together.
	intake sync.Mutex
}

func NewService(journal Journal, q queue.Queue, dedupWindow time.Duration) *Service {
	if dedupWindow <= 0 {
		dedupWindow = 5 * time.Second
	}
	return &Service{journal: journal, queue: q, dedupWindow: dedupWindow}
}

// RegisterDevice persists a reader's id.
func (s *Service) RegisterDevice(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return ErrDeviceRequired
	}
	return s.journal.UpsertDevice(ctx, deviceID)
}

// Tap journals a card read and queues it for forwarding. A repeat read of
// the same card on the same device inside the dedup window returns the
// earlier tap with duplicate set.
func (s *Service) Tap(ctx context.Context, rfidUID, deviceID string) (tap Tap, duplicate bool, err error) {
	uid := strings.TrimSpace(rfidUID)
	if uid == "" {
		return Tap{}, false, ErrUIDRequired
	}
	if deviceID == "" {
		return Tap{}, false, ErrDeviceRequired
	}
	tap, duplicate, err = s.journalOnce(ctx, uid, deviceID)
	if err != nil || duplicate {
		return tap, duplicate, err
	}
	metrics.Taps.WithLabelValues(StatusPending).Inc()

	if err := s.queue.Publish(ctx, queue.Message{Type: MessageType, Body: []byte(tap.ID)}); err != nil {
		log.Printf("queue publish failed for tap %s: %v", tap.ID, err)
		out := Outcome{Status: StatusFailed, Code: 500, Message: "queue unavailable"}
		if uerr := s.journal.UpdateTapStatus(ctx, tap.ID, out); uerr != nil {
			log.Printf("mark tap %s failed: %v", tap.ID, uerr)
		}
		tap.Status, tap.Code, tap.Message = out.Status, out.Code, out.Message
	}
	return tap, false, nil
}

func (s *Service) journalOnce(ctx context.Context, uid, deviceID string) (Tap, bool, error) {
	s.intake.Lock()
	defer s.intake.Unlock()

	recent, err := s.journal.RecentTap(ctx, uid, deviceID, s.dedupWindow)
	if err != nil {
		return Tap{}, false, fmt.Errorf("dedup lookup: %w", err)
	}
	if recent != nil {
		metrics.TapsSuppressed.Inc()
		return *recent, true, nil
	}
	tap, err := s.journal.InsertTap(ctx, Tap{
		RFIDUID:  uid,
		DeviceID: deviceID,
		TappedAt: time.Now().UTC(),
		Status:   StatusPending,
	})
	if err != nil {
		return Tap{}, false, fmt.Errorf("journal tap: %w", err)
	}
	return tap, false, nil
}

// Recent lists journaled taps, newest first.
func (s *Service) Recent(ctx context.Context, deviceID string, limit, offset int) ([]Tap, error) {
	return s.journal.ListTaps(ctx, deviceID, limit, offset)
}

// ConsumeRefreshToken revokes a refresh token and returns the device it was
// issued to. A token can be used once.
func (s *Service) ConsumeRefreshToken(ctx context.Context, token string) (string, error) {
	return s.journal.ConsumeRefreshToken(ctx, token)
}

// SaveRefreshToken records a refresh token issued to a device.
func (s *Service) SaveRefreshToken(ctx context.Context, deviceID, token string, expiresAt time.Time) error {
	return s.journal.SaveRefreshToken(ctx, deviceID, token, expiresAt)
}
