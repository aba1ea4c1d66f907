package utils

import "github.com/google/uuid"

// UUIDGenerator issues time-ordered identifiers for new sessions.
type UUIDGenerator struct {
}

// NewUUIDGenerator constructs a UUIDGenerator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUIDv7 string, falling back to a random UUIDv4 if
// v7 generation fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
