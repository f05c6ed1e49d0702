// README: Pricing service turns a trip and a live demand snapshot into a fare quote.
package pricing

import (
	"context"

	"ridepool/internal/config"
	"ridepool/internal/modules/location"
	"ridepool/internal/types"
)

type demandReader interface {
	Demand(ctx context.Context) (Demand, error)
}

type Service struct {
	store    demandReader
	engine   *Engine
	currency string
}

func NewService(store demandReader, cfg config.PricingConfig) *Service {
	return &Service{store: store, engine: NewEngine(cfg), currency: cfg.Currency}
}

// Quote prices the direct pickup→dropoff distance against current demand.
func (s *Service) Quote(ctx context.Context, pickup, dropoff types.Point) (Quote, error) {
	d, err := s.store.Demand(ctx)
	if err != nil {
		return Quote{}, err
	}
	dist := location.HaversineKm(pickup, dropoff)
	return Quote{
		Fare:       types.Money{Amount: s.engine.Price(dist, d.ActiveRequests, d.AvailableVehicles), Currency: s.currency},
		DistanceKm: dist,
		Multiplier: s.engine.Multiplier(d.ActiveRequests, d.AvailableVehicles),
		Demand:     d,
	}, nil
}
