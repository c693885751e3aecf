package config_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/safework-lab/talos/pkg/domain/model/config"
)

func TestStatusPolicyApproachingWindow(t *testing.T) {
	policy := config.DefaultStatusPolicy()

	// 1 year cycle: 10% of the period is larger than the 7 day floor
	year := 365 * 24 * time.Hour
	gt.Value(t, policy.ApproachingWindow(year)).Equal(time.Duration(0.10 * float64(year)))

	// 1 day cycle: the floor wins
	day := 24 * time.Hour
	gt.Value(t, policy.ApproachingWindow(day)).Equal(7 * 24 * time.Hour)
}

func TestStatusPolicyValidate(t *testing.T) {
	gt.NoError(t, config.DefaultStatusPolicy().Validate())

	bad := &config.StatusPolicy{MinWindow: -time.Hour, WindowFraction: 0.1}
	gt.Error(t, bad.Validate())

	bad = &config.StatusPolicy{MinWindow: time.Hour, WindowFraction: 1.5}
	gt.Error(t, bad.Validate())
}
