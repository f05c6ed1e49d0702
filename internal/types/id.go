// README: Shared identifiers and coordinates.
package types

import "github.com/google/uuid"

type ID string

// NewID returns a random UUIDv4 identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IDsToStrings is used when passing ID slices to pgx as text[].
func IDsToStrings(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
