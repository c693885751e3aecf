package model

import (
	"math"
	"time"

	"github.com/safework-lab/talos/pkg/domain/types"
)

// RemediationRow is one hazard mitigation on a document, placed in a
// tier of the hierarchy of controls with before/after risk scores.
type RemediationRow struct {
	ID              string
	Hazard          string
	ControlTier     types.ControlTier
	CurrentRisk     RiskScore
	ProposedMeasure string
	PostRisk        RiskScore
	Owner           string
	DueDate         time.Time
	CompletedAt     *time.Time
	Done            bool
}

// RiskIncreaseWarning flags a row whose proposed measure raises the
// risk value. Not an error: trading one hazard for a lesser-understood
// one can be legitimate, but it must never pass silently.
type RiskIncreaseWarning struct {
	RowID        string
	CurrentValue int
	PostValue    int
}

// CheckRiskIncrease returns a warning if the row's post-measure risk
// exceeds its current risk, or nil otherwise.
func (r *RemediationRow) CheckRiskIncrease() *RiskIncreaseWarning {
	if r.PostRisk.Value <= r.CurrentRisk.Value {
		return nil
	}
	return &RiskIncreaseWarning{
		RowID:        r.ID,
		CurrentValue: r.CurrentRisk.Value,
		PostValue:    r.PostRisk.Value,
	}
}

// CompletionRate returns the percentage of done rows in a tier,
// rounded to the nearest integer. An empty tier is vacuously complete:
// nothing required, nothing outstanding.
func CompletionRate(rows []RemediationRow, tier types.ControlTier) int {
	var total, done int
	for _, r := range rows {
		if r.ControlTier != tier {
			continue
		}
		total++
		if r.Done {
			done++
		}
	}
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}
