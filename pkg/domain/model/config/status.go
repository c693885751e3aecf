package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// StatusPolicy controls when a renewable obligation is flagged as
// approaching its deadline. The approaching window is
// max(MinWindow, WindowFraction*period): short cycles still get at
// least MinWindow of warning, long cycles a proportional runway.
type StatusPolicy struct {
	MinWindow      time.Duration
	WindowFraction float64
}

// DefaultStatusPolicy returns the documented default policy (7 days, 10%)
func DefaultStatusPolicy() *StatusPolicy {
	return &StatusPolicy{
		MinWindow:      7 * 24 * time.Hour,
		WindowFraction: 0.10,
	}
}

// Validate checks if the StatusPolicy is valid
func (p *StatusPolicy) Validate() error {
	if p.MinWindow < 0 {
		return goerr.New("minimum window must not be negative", goerr.V("min_window", p.MinWindow))
	}
	if p.WindowFraction < 0 || p.WindowFraction > 1 {
		return goerr.New("window fraction must be between 0 and 1", goerr.V("fraction", p.WindowFraction))
	}
	return nil
}

// ApproachingWindow returns the warning window for a renewal period
func (p *StatusPolicy) ApproachingWindow(period time.Duration) time.Duration {
	window := time.Duration(p.WindowFraction * float64(period))
	if window < p.MinWindow {
		return p.MinWindow
	}
	return window
}
