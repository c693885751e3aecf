package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/safework-lab/talos/pkg/domain/model/config"
)

func TestDefaultRiskMatrix(t *testing.T) {
	matrix := config.DefaultRiskMatrix()
	gt.NoError(t, matrix.Validate())
	gt.Value(t, matrix.MaxValue()).Equal(25)

	label, ok := matrix.LabelFor(1)
	gt.Bool(t, ok).True()
	gt.Value(t, label).Equal("low")

	label, ok = matrix.LabelFor(12)
	gt.Bool(t, ok).True()
	gt.Value(t, label).Equal("very high")

	_, ok = matrix.LabelFor(26)
	gt.Bool(t, ok).False()
}

func TestRiskMatrixValidate(t *testing.T) {
	cases := []struct {
		name    string
		matrix  config.RiskMatrix
		wantErr bool
	}{
		{
			name: "valid 3x3",
			matrix: config.RiskMatrix{
				FrequencyMax: 3,
				SeverityMax:  3,
				Bands: []config.Band{
					{MinValue: 1, MaxValue: 4, Label: "low"},
					{MinValue: 5, MaxValue: 9, Label: "high"},
				},
			},
		},
		{
			name: "gap between bands",
			matrix: config.RiskMatrix{
				FrequencyMax: 3,
				SeverityMax:  3,
				Bands: []config.Band{
					{MinValue: 1, MaxValue: 3, Label: "low"},
					{MinValue: 5, MaxValue: 9, Label: "high"},
				},
			},
			wantErr: true,
		},
		{
			name: "overlapping bands",
			matrix: config.RiskMatrix{
				FrequencyMax: 3,
				SeverityMax:  3,
				Bands: []config.Band{
					{MinValue: 1, MaxValue: 5, Label: "low"},
					{MinValue: 5, MaxValue: 9, Label: "high"},
				},
			},
			wantErr: true,
		},
		{
			name: "does not start at 1",
			matrix: config.RiskMatrix{
				FrequencyMax: 3,
				SeverityMax:  3,
				Bands: []config.Band{
					{MinValue: 2, MaxValue: 9, Label: "all"},
				},
			},
			wantErr: true,
		},
		{
			name: "does not cover max value",
			matrix: config.RiskMatrix{
				FrequencyMax: 5,
				SeverityMax:  5,
				Bands: []config.Band{
					{MinValue: 1, MaxValue: 20, Label: "all"},
				},
			},
			wantErr: true,
		},
		{
			name: "zero scale",
			matrix: config.RiskMatrix{
				FrequencyMax: 0,
				SeverityMax:  5,
				Bands: []config.Band{
					{MinValue: 1, MaxValue: 1, Label: "all"},
				},
			},
			wantErr: true,
		},
		{
			name: "no bands",
			matrix: config.RiskMatrix{
				FrequencyMax: 3,
				SeverityMax:  3,
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.matrix.Validate()
			if tc.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestRiskMatrixLabelForUnsortedBands(t *testing.T) {
	// Band order in the config must not matter
	matrix := config.RiskMatrix{
		FrequencyMax: 3,
		SeverityMax:  3,
		Bands: []config.Band{
			{MinValue: 5, MaxValue: 9, Label: "high"},
			{MinValue: 1, MaxValue: 4, Label: "low"},
		},
	}
	gt.NoError(t, matrix.Validate())

	label, ok := matrix.LabelFor(4)
	gt.Bool(t, ok).True()
	gt.Value(t, label).Equal("low")
}
