package order

import "time"

// NewFixedTrackingGenerator generador determinista para los tests del paquete order_test.
func NewFixedTrackingGenerator(maxAttempts int, intn func(int) int, now time.Time) *TrackingGenerator {
	return &TrackingGenerator{maxAttempts: maxAttempts, intn: intn, now: func() time.Time { return now }}
}
