package services

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// IDSource supplies entity ids and invoice number codes. Injecting it keeps
// StartNew and Finalize deterministic under test.
type IDSource interface {
	// NewID returns a fresh opaque unique id.
	NewID() string
	// NumberCode returns the 4-digit code used in invoice numbers.
	NumberCode() string
}

// RandomIDSource is the production id source: UUIDs for entity ids and a
// random 4-digit code for invoice numbers.
type RandomIDSource struct{}

func (RandomIDSource) NewID() string {
	return uuid.NewString()
}

func (RandomIDSource) NumberCode() string {
	return fmt.Sprintf("%04d", 1000+rand.Intn(9000))
}

// SequentialIDSource hands out predictable ids; intended for tests.
type SequentialIDSource struct {
	next int
}

func (s *SequentialIDSource) NewID() string {
	s.next++
	return fmt.Sprintf("id-%d", s.next)
}

func (s *SequentialIDSource) NumberCode() string {
	s.next++
	return fmt.Sprintf("%04d", s.next)
}
