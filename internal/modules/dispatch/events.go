// README: RideMatched events published to Kafka after a group commits.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"ridepool/internal/types"
)

type RideMatched struct {
	RideID          types.ID   `json:"ride_id"`
	VehicleID       types.ID   `json:"vehicle_id"`
	BookingIDs      []types.ID `json:"booking_ids"`
	TotalDistanceKm float64    `json:"total_distance_km"`
	MatchedAt       time.Time  `json:"matched_at"`
}

type Publisher interface {
	PublishRideMatched(ctx context.Context, ev RideMatched) error
}

type nopPublisher struct{}

func (nopPublisher) PublishRideMatched(context.Context, RideMatched) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher keys messages by ride ID. A nil writer yields a publisher
// that drops events.
func NewKafkaPublisher(w *kafka.Writer) Publisher {
	if w == nil {
		return nopPublisher{}
	}
	return &KafkaPublisher{w: w}
}

func (p *KafkaPublisher) PublishRideMatched(ctx context.Context, ev RideMatched) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal ride matched: %w", err)
	}
	if err := p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.RideID),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("publish ride matched: %w", err)
	}
	return nil
}
