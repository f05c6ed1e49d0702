// README: Matching service reads the pending set, groups it and hands groups to the dispatcher.
package matching

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ridepool/internal/config"
	"ridepool/internal/modules/booking"
	"ridepool/internal/types"
)

type PendingSource interface {
	ListPending(ctx context.Context) ([]*booking.Booking, error)
}

// Dispatcher commits each group independently and reports one Outcome per
// group, in the same order.
type Dispatcher interface {
	Dispatch(ctx context.Context, groups []MatchedGroup) []Outcome
}

type Service struct {
	bookings   PendingSource
	dispatcher Dispatcher
	matcher    *Matcher
	cfg        config.MatchingConfig
	log        *zap.Logger
}

func NewService(bookings PendingSource, dispatcher Dispatcher, cfg config.MatchingConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		bookings:   bookings,
		dispatcher: dispatcher,
		matcher:    NewMatcher(cfg),
		cfg:        cfg,
		log:        log,
	}
}

// Trigger runs one matching pass over the current pending set. Only a failure
// to read the pending set is returned as an error; per-group failures are
// reported in Report.Pending.
func (s *Service) Trigger(ctx context.Context) (Report, error) {
	pending, err := s.bookings.ListPending(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("read pending bookings: %w", err)
	}
	report := Report{Considered: len(pending)}
	if len(pending) == 0 {
		return report, nil
	}

	reqs := make([]RideRequest, len(pending))
	for i, b := range pending {
		reqs[i] = RequestFromBooking(b)
	}

	groups := s.matcher.Match(reqs)
	nonEmpty := groups[:0:0]
	for _, g := range groups {
		if len(g.Requests) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}

	for _, o := range s.dispatcher.Dispatch(ctx, nonEmpty) {
		if o.Committed() {
			report.Matched = append(report.Matched, o)
			continue
		}
		s.log.Warn("group left pending",
			zap.Strings("booking_ids", types.IDsToStrings(o.BookingIDs)),
			zap.Error(o.Err),
		)
		report.Pending = append(report.Pending, o)
	}

	s.log.Info("matching completed",
		zap.Int("pending", len(pending)),
		zap.Int("groups", len(nonEmpty)),
		zap.Int("rides", len(report.Matched)),
	)
	return report, nil
}

// RunScheduler triggers matching every TriggerInterval until ctx is done.
// A zero interval disables it; matching then only runs on demand.
func (s *Service) RunScheduler(ctx context.Context) {
	if s.cfg.TriggerInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.TriggerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Trigger(ctx); err != nil {
				s.log.Error("scheduled matching failed", zap.Error(err))
			}
		}
	}
}
