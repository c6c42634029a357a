package kiosk

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryJournal keeps taps in process. It is used when no database is
// configured.
type refreshToken struct {
	deviceID  string
	expiresAt time.Time
	revoked   bool
}

type MemoryJournal struct {
	mu      sync.Mutex
	devices map[string]time.Time
	tokens  map[string]*refreshToken
	taps    []Tap
	now     func() time.Time
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		devices: make(map[string]time.Time),
		tokens:  make(map[string]*refreshToken),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryJournal) UpsertDevice(_ context.Context, deviceID string) error {
	if deviceID == "" {
		return ErrDeviceRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.devices[deviceID]; !ok {
		m.devices[deviceID] = m.now()
	}
	return nil
}

func (m *MemoryJournal) SaveRefreshToken(_ context.Context, deviceID, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = &refreshToken{deviceID: deviceID, expiresAt: expiresAt}
	return nil
}

func (m *MemoryJournal) ConsumeRefreshToken(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.tokens[token]
	if !ok || rt.revoked || !m.now().Before(rt.expiresAt) {
		return "", ErrRefreshInvalid
	}
	rt.revoked = true
	return rt.deviceID, nil
}

func (m *MemoryJournal) RecentTap(_ context.Context, rfidUID, deviceID string, window time.Duration) (*Tap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-window)
	for i := len(m.taps) - 1; i >= 0; i-- {
		t := m.taps[i]
		if t.RFIDUID == rfidUID && t.DeviceID == deviceID && !t.TappedAt.Before(cutoff) {
			return &t, nil
		}
	}
	return nil, nil
}

func (m *MemoryJournal) InsertTap(_ context.Context, tap Tap) (Tap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tap.ID == "" {
		tap.ID = uuid.NewString()
	}
	if tap.TappedAt.IsZero() {
		tap.TappedAt = m.now()
	}
	if tap.Status == "" {
		tap.Status = StatusPending
	}
	tap.CreatedAt = m.now()
	m.taps = append(m.taps, tap)
	return tap, nil
}

func (m *MemoryJournal) GetTap(_ context.Context, id string) (Tap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.taps {
		if t.ID == id {
			return t, nil
		}
	}
	return Tap{}, ErrTapNotFound
}

func (m *MemoryJournal) UpdateTapStatus(_ context.Context, id string, out Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.taps {
		if m.taps[i].ID == id {
			m.taps[i].Status = out.Status
			m.taps[i].Code = out.Code
			m.taps[i].Message = out.Message
			m.taps[i].StudentName = out.StudentName
			return nil
		}
	}
	return ErrTapNotFound
}

func (m *MemoryJournal) ListTaps(_ context.Context, deviceID string, limit, offset int) ([]Tap, error) {
	limit, offset = page(limit, offset)
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []Tap
	skipped := 0
	for i := len(m.taps) - 1; i >= 0 && len(res) < limit; i-- {
		t := m.taps[i]
		if deviceID != "" && t.DeviceID != deviceID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		res = append(res, t)
	}
	return res, nil
}
