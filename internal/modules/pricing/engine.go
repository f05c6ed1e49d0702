// README: Pricing engine: base fare + per-km rate, demand multiplier, minimum fare.
package pricing

import (
	"math"
	"slices"

	"ridepool/internal/config"
)

type Engine struct {
	cfg   config.PricingConfig
	tiers []config.SurgeTier
}

// NewEngine orders surge tiers by descending threshold so every tier is reachable
// regardless of the order they were configured in.
func NewEngine(cfg config.PricingConfig) *Engine {
	tiers := slices.Clone(cfg.SurgeTiers)
	slices.SortStableFunc(tiers, func(a, b config.SurgeTier) int {
		switch {
		case a.Above > b.Above:
			return -1
		case a.Above < b.Above:
			return 1
		}
		return 0
	})
	return &Engine{cfg: cfg, tiers: tiers}
}

// Multiplier returns the demand multiplier for the snapshot.
func (e *Engine) Multiplier(activeRequests, availableVehicles int) float64 {
	if availableVehicles <= 0 {
		if activeRequests > e.cfg.FallbackActiveThreshold {
			return e.cfg.FallbackMultiplier
		}
		return 1.0
	}
	ratio := float64(activeRequests) / float64(availableVehicles)
	for _, t := range e.tiers {
		if ratio > t.Above {
			return t.Multiplier
		}
	}
	return 1.0
}

// Price returns the integer fare, never below MinFare.
func (e *Engine) Price(distanceKm float64, activeRequests, availableVehicles int) int64 {
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		distanceKm = 0
	}
	m := e.Multiplier(activeRequests, availableVehicles)
	raw := (float64(e.cfg.BaseFare) + distanceKm*float64(e.cfg.RatePerKm)) * m
	price := int64(math.Round(raw))
	if price < e.cfg.MinFare {
		return e.cfg.MinFare
	}
	return price
}
