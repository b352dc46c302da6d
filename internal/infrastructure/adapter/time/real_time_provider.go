package time

import (
	"time"

	"github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
)

// RealTimeProvider implements core.TimeProvider with the wall clock in UTC
type RealTimeProvider struct{}

// NewRealTimeProvider creates a new real time provider
func NewRealTimeProvider() core.TimeProvider {
	return &RealTimeProvider{}
}

// Now returns the current time in UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// Since returns the time elapsed since t
func (p *RealTimeProvider) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// FixedTimeProvider always reports the same instant; used by tests and the CLI dry runs
type FixedTimeProvider struct {
	At time.Time
}

// Now returns the fixed instant
func (p FixedTimeProvider) Now() time.Time {
	return p.At
}

// Since returns the duration between the fixed instant and t
func (p FixedTimeProvider) Since(t time.Time) time.Duration {
	return p.At.Sub(t)
}
