// README: Greedy first-fit grouping of ride requests under capacity, wait and proximity gates.
package matching

import (
	"slices"
	"strings"
	"time"

	"ridepool/internal/config"
	"ridepool/internal/modules/location"
)

type Matcher struct {
	cfg config.MatchingConfig
}

func NewMatcher(cfg config.MatchingConfig) *Matcher {
	return &Matcher{cfg: cfg}
}

// Match partitions reqs into groups. Requests are taken in pickup-time order
// (ties by ID) and each joins the first open group whose gates all pass, or
// opens a new one. No backtracking.
func (m *Matcher) Match(reqs []RideRequest) []MatchedGroup {
	if len(reqs) == 0 {
		return []MatchedGroup{}
	}

	sorted := slices.Clone(reqs)
	slices.SortStableFunc(sorted, func(a, b RideRequest) int {
		if c := a.PickupTime.Compare(b.PickupTime); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})

	// groups and load are indexed together; load[i] is the passenger sum of groups[i].
	groups := make([]MatchedGroup, 0, len(sorted))
	load := make([]int, 0, len(sorted))

	for _, r := range sorted {
		joined := false
		for i := range groups {
			if m.accepts(groups[i], load[i], r) {
				groups[i].Requests = append(groups[i].Requests, r)
				load[i] += r.Passengers
				joined = true
				break
			}
		}
		if joined {
			continue
		}
		groups = append(groups, MatchedGroup{
			Requests:            []RideRequest{r},
			ReferenceDistanceKm: location.HaversineKm(r.Pickup, r.Dropoff),
		})
		load = append(load, r.Passengers)
	}
	return groups
}

func (m *Matcher) accepts(g MatchedGroup, load int, r RideRequest) bool {
	if load+r.Passengers > m.cfg.VehicleCapacity {
		return false
	}

	wait := r.PickupTime.Sub(g.Requests[0].PickupTime)
	if absDuration(wait) > m.cfg.MaxWait {
		return false
	}

	closePickup, closeDropoff := false, false
	for _, member := range g.Requests {
		if !closePickup && location.HaversineKm(member.Pickup, r.Pickup) < m.cfg.PickupRadiusKm {
			closePickup = true
		}
		if !closeDropoff && location.HaversineKm(member.Dropoff, r.Dropoff) < m.cfg.DropoffRadiusKm {
			closeDropoff = true
		}
		if closePickup && closeDropoff {
			return true
		}
	}
	return false
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
