package fleet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ridepool/internal/testutil"
	"ridepool/internal/types"
)

type memVehicleStore struct {
	mu       sync.Mutex
	vehicles map[types.ID]*Vehicle
}

func newMemVehicleStore() *memVehicleStore {
	return &memVehicleStore{vehicles: make(map[types.ID]*Vehicle)}
}

func (m *memVehicleStore) Create(_ context.Context, v *Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	m.vehicles[v.ID] = &cp
	return nil
}

func (m *memVehicleStore) Get(_ context.Context, id types.ID) (*Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memVehicleStore) Release(_ context.Context, id types.ID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok || v.IsAvailable {
		return false, nil
	}
	v.IsAvailable = true
	return true, nil
}

func (m *memVehicleStore) claim(id types.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[id].IsAvailable = false
}

func TestRegister(t *testing.T) {
	svc := NewService(newMemVehicleStore(), nil, nil)
	ctx := context.Background()

	v, err := svc.Register(ctx, RegisterCommand{Capacity: 3, Location: types.Point{Lat: 12.97, Lng: 77.59}})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !v.IsAvailable || v.ID == "" {
		t.Fatalf("new vehicle should be available with an id: %+v", v)
	}

	if _, err := svc.Register(ctx, RegisterCommand{Capacity: 0}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for zero capacity, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterCommand{Capacity: 3, Location: types.Point{Lat: -91}}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for bad location, got %v", err)
	}
}

type memIndex struct {
	mu  sync.Mutex
	pos map[types.ID]types.Point
	err error
}

func (m *memIndex) IndexPosition(_ context.Context, id types.ID, pos types.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.pos[id] = pos
	return nil
}

func TestRegister_IndexesInitialPosition(t *testing.T) {
	idx := &memIndex{pos: make(map[types.ID]types.Point)}
	svc := NewService(newMemVehicleStore(), idx, nil)
	at := types.Point{Lat: 12.97, Lng: 77.59}

	v, err := svc.Register(context.Background(), RegisterCommand{Capacity: 3, Location: at})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if got, ok := idx.pos[v.ID]; !ok || got != at {
		t.Fatalf("vehicle not indexed at %+v: %+v", at, idx.pos)
	}

	// The index is best effort; Postgres already holds the vehicle.
	idx.err = errors.New("redis down")
	v, err = svc.Register(context.Background(), RegisterCommand{Capacity: 3, Location: at})
	if err != nil {
		t.Fatalf("register with index down: %v", err)
	}
	if _, err := svc.Get(context.Background(), v.ID); err != nil {
		t.Fatalf("vehicle should be stored: %v", err)
	}
}

func TestRelease(t *testing.T) {
	store := newMemVehicleStore()
	svc := NewService(store, nil, nil)
	ctx := context.Background()

	v, err := svc.Register(ctx, RegisterCommand{Capacity: 3, Location: types.Point{Lat: 1, Lng: 1}})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Release(ctx, v.ID); !errors.Is(err, ErrNotClaimed) {
		t.Fatalf("releasing an available vehicle: expected ErrNotClaimed, got %v", err)
	}

	store.claim(v.ID)
	if err := svc.Release(ctx, v.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	got, _ := svc.Get(ctx, v.ID)
	if !got.IsAvailable {
		t.Fatal("vehicle should be available after release")
	}

	if err := svc.Release(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ReleaseOnlyClaimed(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	v := &Vehicle{ID: types.NewID(), Capacity: 3, Location: types.Point{Lat: 12.97, Lng: 77.59}, IsAvailable: false, CreatedAt: time.Now()}
	if err := store.Create(ctx, v); err != nil {
		t.Fatalf("create: %v", err)
	}
	ok, err := store.Release(ctx, v.ID)
	if err != nil || !ok {
		t.Fatalf("first release: ok=%v err=%v", ok, err)
	}
	ok, err = store.Release(ctx, v.ID)
	if err != nil || ok {
		t.Fatalf("second release should be a no-op: ok=%v err=%v", ok, err)
	}
}
