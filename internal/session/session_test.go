package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"rfidattend/internal/domain"
	"rfidattend/internal/testutil"
)

var sample = domain.SessionWire{
	AccessToken: "eyJhbGciOi",
	TokenType:   "bearer",
	Teacher: domain.TeacherWire{
		ID:        "t1",
		FirstName: "Maria",
		LastName:  "Santos",
		Email:     "maria@school.edu",
		Section:   "ICT12A",
		Role:      "teacher",
	},
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	if s, err := store.Load(ctx); err != nil || s != nil {
		t.Fatalf("Load() on empty store = %v, %v, want nil, nil", s, err)
	}
	if err := store.Save(ctx, sample); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(*got, sample) {
		t.Errorf("Load() = %+v, want %+v", *got, sample)
	}

	raw, _ := os.ReadFile(path)
	var keys map[string]json.RawMessage
	_ = json.Unmarshal(raw, &keys)
	for _, k := range []string{"access_token", "token_type", "teacher"} {
		if _, ok := keys[k]; !ok {
			t.Errorf("persisted blob missing %q: %s", k, raw)
		}
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if s, _ := store.Load(ctx); s != nil {
		t.Errorf("Load() after Clear() = %+v, want nil", s)
	}
	if err := store.Clear(ctx); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	_ = os.WriteFile(path, []byte("{oops"), 0o600)
	if _, err := NewFileStore(path).Load(context.Background()); err == nil {
		t.Error("Load() on corrupt file returned nil error")
	}
}

type countingStore struct {
	*FileStore
	loads int
}

func (c *countingStore) Load(ctx context.Context) (*domain.SessionWire, error) {
	c.loads++
	return c.FileStore.Load(ctx)
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{FileStore: NewFileStore(filepath.Join(t.TempDir(), "s.json"))}
	m := NewManager(store)

	if _, err := m.RequireTeacher(ctx); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("RequireTeacher() error = %v, want ErrNotLoggedIn", err)
	}
	if err := m.Login(ctx, sample); err != nil {
		t.Fatal(err)
	}
	if !m.IsAuthenticated(ctx) {
		t.Error("IsAuthenticated() = false after Login()")
	}

	// A fresh manager reads the persisted blob exactly once.
	m2 := NewManager(store)
	store.loads = 0
	for i := 0; i < 3; i++ {
		s, err := m2.RequireTeacher(ctx)
		if err != nil || s.Teacher.Section != "ICT12A" {
			t.Fatalf("RequireTeacher() = %+v, %v", s, err)
		}
	}
	if store.loads != 1 {
		t.Errorf("store loads = %d, want 1", store.loads)
	}

	if err := m2.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if m2.IsAuthenticated(ctx) {
		t.Error("IsAuthenticated() = true after Logout()")
	}
	if s, _ := NewManager(store).Current(ctx); s != nil {
		t.Errorf("Current() after Logout() = %+v, want nil", s)
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, fake := testutil.NewRedis(t)
	store := NewRedisStore(client, "")

	if s, err := store.Load(ctx); err != nil || s != nil {
		t.Fatalf("Load() on empty key = %v, %v, want nil, nil", s, err)
	}
	if err := store.Save(ctx, sample); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !fake.Has("teacherWithAccessToken") {
		t.Fatal("Save() did not write the default key")
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(*got, sample) {
		t.Errorf("Load() = %+v, want %+v", *got, sample)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if s, _ := store.Load(ctx); s != nil {
		t.Errorf("Load() after Clear() = %+v, want nil", s)
	}
}

func TestRedisStoreLogoutSharedAcrossManagers(t *testing.T) {
	ctx := context.Background()
	client, fake := testutil.NewRedis(t)

	kiosk := NewManager(NewRedisStore(client, "kiosk:session"))
	if err := kiosk.Login(ctx, sample); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	console := NewManager(NewRedisStore(client, "kiosk:session"))
	if !console.IsAuthenticated(ctx) {
		t.Fatal("second terminal does not see the shared login")
	}

	if err := kiosk.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if fake.Has("kiosk:session") {
		t.Error("Logout() left the key in Redis")
	}
	if kiosk.IsAuthenticated(ctx) {
		t.Error("IsAuthenticated() after Logout() = true")
	}
	if NewManager(NewRedisStore(client, "kiosk:session")).IsAuthenticated(ctx) {
		t.Error("fresh manager authenticated after Logout()")
	}
}

func TestRedisStoreErrorsSurface(t *testing.T) {
	client, fake := testutil.NewRedis(t)
	fake.FailWith(errors.New("connection refused"))
	if _, err := NewRedisStore(client, "").Load(context.Background()); err == nil {
		t.Error("Load() with failing redis returned nil error")
	}
}
