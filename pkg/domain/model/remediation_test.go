package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/types"
)

func row(id string, tier types.ControlTier, done bool) model.RemediationRow {
	return model.RemediationRow{
		ID:          id,
		Hazard:      "falling object",
		ControlTier: tier,
		Done:        done,
	}
}

func TestCompletionRate(t *testing.T) {
	rows := []model.RemediationRow{
		row("r1", types.ControlTierElimination, true),
		row("r2", types.ControlTierElimination, false),
		row("r3", types.ControlTierElimination, false),
		row("r4", types.ControlTierEngineering, true),
		row("r5", types.ControlTierAdministrative, false),
	}

	// 1 of 3 done, rounded to the nearest integer
	gt.Value(t, model.CompletionRate(rows, types.ControlTierElimination)).Equal(33)
	gt.Value(t, model.CompletionRate(rows, types.ControlTierEngineering)).Equal(100)

	// Empty tier is vacuously complete
	gt.Value(t, model.CompletionRate(rows, types.ControlTierPPE)).Equal(100)
	gt.Value(t, model.CompletionRate(nil, types.ControlTierElimination)).Equal(100)
}

func TestCompletionRateRounding(t *testing.T) {
	rows := []model.RemediationRow{
		row("r1", types.ControlTierEngineering, true),
		row("r2", types.ControlTierEngineering, true),
		row("r3", types.ControlTierEngineering, false),
	}
	// 2/3 rounds to 67, not truncates to 66
	gt.Value(t, model.CompletionRate(rows, types.ControlTierEngineering)).Equal(67)
}

func TestCheckRiskIncrease(t *testing.T) {
	r := model.RemediationRow{
		ID:          "r1",
		CurrentRisk: model.RiskScore{Value: 12},
		PostRisk:    model.RiskScore{Value: 4},
	}
	gt.Value(t, r.CheckRiskIncrease()).Nil()

	r.PostRisk.Value = 12
	gt.Value(t, r.CheckRiskIncrease()).Nil()

	r.PostRisk.Value = 15
	warning := r.CheckRiskIncrease()
	gt.Value(t, warning).NotNil()
	gt.Value(t, warning.RowID).Equal("r1")
	gt.Value(t, warning.CurrentValue).Equal(12)
	gt.Value(t, warning.PostValue).Equal(15)
}
