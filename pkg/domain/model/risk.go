package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/model/config"
)

// RiskScore is a quantized risk evaluation. Value is authoritative;
// Label is a pure function of Value and the active matrix.
type RiskScore struct {
	Frequency int
	Severity  int
	Value     int
	Label     string
}

// EvaluateRisk scores a hazard on the frequency×severity matrix.
// Pure and deterministic; safe to memoize per (frequency, severity,
// matrix version).
func EvaluateRisk(frequency, severity int, matrix *config.RiskMatrix) (RiskScore, error) {
	if matrix == nil {
		return RiskScore{}, goerr.Wrap(ErrRiskMatrixConfig, "risk matrix is not configured")
	}
	if frequency < 1 || frequency > matrix.FrequencyMax {
		return RiskScore{}, goerr.Wrap(ErrInvalidScoreInput, "frequency outside scale",
			goerr.V(FrequencyKey, frequency), goerr.V("frequency_max", matrix.FrequencyMax))
	}
	if severity < 1 || severity > matrix.SeverityMax {
		return RiskScore{}, goerr.Wrap(ErrInvalidScoreInput, "severity outside scale",
			goerr.V(SeverityKey, severity), goerr.V("severity_max", matrix.SeverityMax))
	}

	value := frequency * severity
	label, ok := matrix.LabelFor(value)
	if !ok {
		// Never silently defaulted: an unmapped value means the
		// matrix has a classification gap.
		return RiskScore{}, goerr.Wrap(ErrRiskMatrixConfig, "no band matches risk value",
			goerr.V(ValueKey, value))
	}

	return RiskScore{
		Frequency: frequency,
		Severity:  severity,
		Value:     value,
		Label:     label,
	}, nil
}
