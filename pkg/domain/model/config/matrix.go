package config

import (
	"sort"

	"github.com/m-mizutani/goerr/v2"
)

// Band maps a contiguous range of risk values to a qualitative label
type Band struct {
	MinValue int
	MaxValue int
	Label    string
}

// Contains reports whether value falls inside the band
func (b Band) Contains(value int) bool {
	return value >= b.MinValue && value <= b.MaxValue
}

// RiskMatrix holds the organization-configurable frequency×severity
// scoring table. Bands must partition [1, FrequencyMax*SeverityMax]
// with no gaps or overlaps.
type RiskMatrix struct {
	FrequencyMax int
	SeverityMax  int
	Bands        []Band
}

// DefaultRiskMatrix returns the documented default 5×5 matrix. Every
// band is non-empty across the 1-25 range; organizations replace this
// table via settings.
func DefaultRiskMatrix() *RiskMatrix {
	return &RiskMatrix{
		FrequencyMax: 5,
		SeverityMax:  5,
		Bands: []Band{
			{MinValue: 1, MaxValue: 4, Label: "low"},
			{MinValue: 5, MaxValue: 7, Label: "medium"},
			{MinValue: 8, MaxValue: 11, Label: "high"},
			{MinValue: 12, MaxValue: 25, Label: "very high"},
		},
	}
}

// MaxValue returns the largest producible risk value
func (m *RiskMatrix) MaxValue() int {
	return m.FrequencyMax * m.SeverityMax
}

// Validate checks that the scales are positive and the bands partition
// the whole value range. A misconfigured matrix must be rejected up
// front; a value without a band would mask a compliance-classification
// gap at evaluation time.
func (m *RiskMatrix) Validate() error {
	if m.FrequencyMax < 1 {
		return goerr.New("frequency scale must be at least 1", goerr.V("frequency_max", m.FrequencyMax))
	}
	if m.SeverityMax < 1 {
		return goerr.New("severity scale must be at least 1", goerr.V("severity_max", m.SeverityMax))
	}
	if len(m.Bands) == 0 {
		return goerr.New("at least one band is required")
	}

	bands := make([]Band, len(m.Bands))
	copy(bands, m.Bands)
	sort.Slice(bands, func(i, j int) bool { return bands[i].MinValue < bands[j].MinValue })

	for _, b := range bands {
		if b.Label == "" {
			return goerr.New("band label is required", goerr.V("min", b.MinValue), goerr.V("max", b.MaxValue))
		}
		if b.MaxValue < b.MinValue {
			return goerr.New("band range is inverted", goerr.V("min", b.MinValue), goerr.V("max", b.MaxValue))
		}
	}

	if bands[0].MinValue != 1 {
		return goerr.New("bands must start at 1", goerr.V("min", bands[0].MinValue))
	}
	for i := 1; i < len(bands); i++ {
		prev, cur := bands[i-1], bands[i]
		if cur.MinValue <= prev.MaxValue {
			return goerr.New("bands overlap",
				goerr.V("band", cur.Label), goerr.V("min", cur.MinValue), goerr.V("prev_max", prev.MaxValue))
		}
		if cur.MinValue != prev.MaxValue+1 {
			return goerr.New("gap between bands",
				goerr.V("after", prev.Label), goerr.V("expected_min", prev.MaxValue+1), goerr.V("actual_min", cur.MinValue))
		}
	}
	if last := bands[len(bands)-1]; last.MaxValue != m.MaxValue() {
		return goerr.New("bands must cover the full value range",
			goerr.V("last_max", last.MaxValue), goerr.V("range_max", m.MaxValue()))
	}

	return nil
}

// LabelFor returns the label of the band containing value, or false
// if no band matches.
func (m *RiskMatrix) LabelFor(value int) (string, bool) {
	for _, b := range m.Bands {
		if b.Contains(value) {
			return b.Label, true
		}
	}
	return "", false
}
