package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/model/config"
)

func TestEvaluateRisk(t *testing.T) {
	matrix := config.DefaultRiskMatrix()

	t.Run("frequency 3 severity 4 is very high", func(t *testing.T) {
		score, err := model.EvaluateRisk(3, 4, matrix)
		gt.NoError(t, err).Required()
		gt.Value(t, score.Value).Equal(12)
		gt.Value(t, score.Label).Equal("very high")
		gt.Value(t, score.Frequency).Equal(3)
		gt.Value(t, score.Severity).Equal(4)
	})

	t.Run("every cell of the matrix has a label", func(t *testing.T) {
		for f := 1; f <= matrix.FrequencyMax; f++ {
			for s := 1; s <= matrix.SeverityMax; s++ {
				score, err := model.EvaluateRisk(f, s, matrix)
				gt.NoError(t, err).Required()
				gt.Value(t, score.Value).Equal(f * s)
				gt.Bool(t, score.Label != "").True()
			}
		}
	})

	t.Run("inputs outside the scale are rejected", func(t *testing.T) {
		for _, in := range [][2]int{{0, 3}, {3, 0}, {6, 3}, {3, 6}, {-1, 1}} {
			_, err := model.EvaluateRisk(in[0], in[1], matrix)
			gt.Error(t, err)
			gt.Bool(t, errors.Is(err, model.ErrInvalidScoreInput)).True()
		}
	})

	t.Run("nil matrix is a configuration error", func(t *testing.T) {
		_, err := model.EvaluateRisk(1, 1, nil)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrRiskMatrixConfig)).True()
	})

	t.Run("classification gap is never defaulted", func(t *testing.T) {
		gappy := &config.RiskMatrix{
			FrequencyMax: 5,
			SeverityMax:  5,
			Bands: []config.Band{
				{MinValue: 1, MaxValue: 20, Label: "low"},
			},
		}
		_, err := model.EvaluateRisk(5, 5, gappy)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, model.ErrRiskMatrixConfig)).True()
	})
}
