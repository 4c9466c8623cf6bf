package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates statement IDs. ULIDs sort by creation time,
// which keeps the (created_at, id) order stable for equal timestamps.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
