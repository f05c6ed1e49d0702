package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"ridepool/internal/config"
	"ridepool/internal/modules/booking"
	"ridepool/internal/types"
)

type fakePending struct {
	bookings []*booking.Booking
	err      error
}

func (f *fakePending) ListPending(ctx context.Context) ([]*booking.Booking, error) {
	return f.bookings, f.err
}

// fakeDispatcher fails groups whose first booking ID is in fail.
type fakeDispatcher struct {
	calls  int
	groups []MatchedGroup
	fail   map[types.ID]error
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, groups []MatchedGroup) []Outcome {
	f.calls++
	f.groups = groups
	out := make([]Outcome, len(groups))
	for i, g := range groups {
		out[i] = Outcome{BookingIDs: g.BookingIDs()}
		if err, ok := f.fail[g.Requests[0].ID]; ok {
			out[i].Err = err
			continue
		}
		out[i].RideID = types.NewID()
		out[i].VehicleID = types.ID("v1")
	}
	return out
}

func pendingBooking(id string, pickup, dropoff types.Point, at time.Time, passengers int) *booking.Booking {
	return &booking.Booking{
		ID:         types.ID(id),
		UserID:     "user",
		Pickup:     pickup,
		Dropoff:    dropoff,
		PickupTime: at,
		Passengers: passengers,
		Status:     booking.StatusPending,
	}
}

func TestTrigger_GroupsAndReports(t *testing.T) {
	src := &fakePending{bookings: []*booking.Booking{
		pendingBooking("1", pickupA, dropoffA, t0, 1),
		pendingBooking("2", pickupB, dropoffB, t0.Add(5*time.Minute), 1),
		pendingBooking("3", types.Point{Lat: 12.2958, Lng: 76.6394}, types.Point{Lat: 11.4102, Lng: 76.6950}, t0, 1),
	}}
	disp := &fakeDispatcher{}
	svc := NewService(src, disp, config.DefaultMatching(), nil)

	report, err := svc.Trigger(context.Background())
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if report.Considered != 3 {
		t.Errorf("considered = %d, want 3", report.Considered)
	}
	if len(disp.groups) != 2 {
		t.Fatalf("dispatched %d groups, want 2", len(disp.groups))
	}
	if len(report.Matched) != 2 || len(report.Pending) != 0 {
		t.Fatalf("matched=%d pending=%d", len(report.Matched), len(report.Pending))
	}
}

func TestTrigger_FailedGroupReportedPending(t *testing.T) {
	noVehicle := errors.New("no vehicle")
	src := &fakePending{bookings: []*booking.Booking{
		pendingBooking("1", pickupA, dropoffA, t0, 1),
		pendingBooking("3", types.Point{Lat: 12.2958, Lng: 76.6394}, types.Point{Lat: 11.4102, Lng: 76.6950}, t0, 1),
	}}
	disp := &fakeDispatcher{fail: map[types.ID]error{"3": noVehicle}}
	svc := NewService(src, disp, config.DefaultMatching(), nil)

	report, err := svc.Trigger(context.Background())
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if len(report.Matched) != 1 || report.Matched[0].BookingIDs[0] != "1" {
		t.Fatalf("unexpected matched: %+v", report.Matched)
	}
	if len(report.Pending) != 1 || !errors.Is(report.Pending[0].Err, noVehicle) {
		t.Fatalf("unexpected pending: %+v", report.Pending)
	}
}

func TestTrigger_EmptyPendingSkipsDispatch(t *testing.T) {
	disp := &fakeDispatcher{}
	svc := NewService(&fakePending{}, disp, config.DefaultMatching(), nil)

	report, err := svc.Trigger(context.Background())
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if disp.calls != 0 {
		t.Fatalf("dispatcher called %d times", disp.calls)
	}
	if report.Considered != 0 || len(report.Matched) != 0 || len(report.Pending) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestTrigger_ReadFailureIsReturned(t *testing.T) {
	readErr := errors.New("connection refused")
	disp := &fakeDispatcher{}
	svc := NewService(&fakePending{err: readErr}, disp, config.DefaultMatching(), nil)

	if _, err := svc.Trigger(context.Background()); !errors.Is(err, readErr) {
		t.Fatalf("expected read error, got %v", err)
	}
	if disp.calls != 0 {
		t.Fatal("dispatcher must not run when the pending read fails")
	}
}

func TestRunScheduler_DisabledReturnsImmediately(t *testing.T) {
	svc := NewService(&fakePending{}, &fakeDispatcher{}, config.DefaultMatching(), nil)
	done := make(chan struct{})
	go func() {
		svc.RunScheduler(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunScheduler with zero interval should return")
	}
}

func TestRunScheduler_TicksUntilCancelled(t *testing.T) {
	cfg := config.DefaultMatching()
	cfg.TriggerInterval = 10 * time.Millisecond
	src := &fakePending{bookings: []*booking.Booking{pendingBooking("1", pickupA, dropoffA, t0, 1)}}
	disp := &countingDispatcher{ticks: make(chan struct{}, 16)}
	svc := NewService(src, disp, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunScheduler(ctx)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-disp.ticks:
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not trigger")
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
}

type countingDispatcher struct {
	ticks chan struct{}
}

func (c *countingDispatcher) Dispatch(ctx context.Context, groups []MatchedGroup) []Outcome {
	select {
	case c.ticks <- struct{}{}:
	default:
	}
	out := make([]Outcome, len(groups))
	for i, g := range groups {
		out[i] = Outcome{BookingIDs: g.BookingIDs(), RideID: "r"}
	}
	return out
}
