package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/safework-lab/talos/pkg/domain/model/config"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the application configuration loaded from TOML
type AppConfig struct {
	path string

	Matrix MatrixConfig `toml:"matrix"`
	Status StatusConfig `toml:"status"`
}

// MatrixConfig represents the risk matrix configuration
type MatrixConfig struct {
	FrequencyMax int          `toml:"frequency_max"`
	SeverityMax  int          `toml:"severity_max"`
	Bands        []BandConfig `toml:"band"`
}

// BandConfig represents one qualitative risk band
type BandConfig struct {
	Min   int    `toml:"min"`
	Max   int    `toml:"max"`
	Label string `toml:"label"`
}

// StatusConfig represents the deadline warning policy
type StatusConfig struct {
	MinWindowDays  int     `toml:"min_window_days"`
	WindowFraction float64 `toml:"window_fraction"`
}

func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML configuration file (defaults apply when omitted)",
			Sources:     cli.EnvVars("TALOS_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Path returns the configured file path
func (a *AppConfig) Path() string {
	return a.path
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	for i, band := range a.Matrix.Bands {
		if band.Label == "" {
			return goerr.Wrap(ErrInvalidBand, "band label is required", goerr.V(BandIndexKey, i))
		}
		if band.Min > band.Max {
			return goerr.Wrap(ErrInvalidBand, "band min exceeds max",
				goerr.V(BandIndexKey, i), goerr.V("min", band.Min), goerr.V("max", band.Max))
		}
	}
	if err := a.ToRiskMatrix().Validate(); err != nil {
		return goerr.Wrap(err, "invalid risk matrix")
	}
	if err := a.ToStatusPolicy().Validate(); err != nil {
		return goerr.Wrap(err, "invalid status policy")
	}
	return nil
}

// Configure loads the TOML file when a path was given and validates
// the result. Without a path the documented defaults are used.
func (a *AppConfig) Configure() (*domainConfig.RiskMatrix, *domainConfig.StatusPolicy, error) {
	if a.path != "" {
		// #nosec G304 - path is expected to be provided by CLI argument
		data, err := os.ReadFile(a.path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil, goerr.Wrap(ErrConfigNotFound, "", goerr.V(ConfigPathKey, a.path))
			}
			return nil, nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, a.path))
		}
		if err := toml.Unmarshal(data, a); err != nil {
			return nil, nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, a.path))
		}
		if err := a.Validate(); err != nil {
			return nil, nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, a.path))
		}
	}
	return a.ToRiskMatrix(), a.ToStatusPolicy(), nil
}

// ToRiskMatrix converts the TOML matrix section to the domain matrix.
// An empty section yields the default 5x5 table.
func (a *AppConfig) ToRiskMatrix() *domainConfig.RiskMatrix {
	if a.Matrix.FrequencyMax == 0 && a.Matrix.SeverityMax == 0 && len(a.Matrix.Bands) == 0 {
		return domainConfig.DefaultRiskMatrix()
	}

	bands := make([]domainConfig.Band, len(a.Matrix.Bands))
	for i, band := range a.Matrix.Bands {
		bands[i] = domainConfig.Band{
			MinValue: band.Min,
			MaxValue: band.Max,
			Label:    band.Label,
		}
	}
	return &domainConfig.RiskMatrix{
		FrequencyMax: a.Matrix.FrequencyMax,
		SeverityMax:  a.Matrix.SeverityMax,
		Bands:        bands,
	}
}

// ToStatusPolicy converts the TOML status section to the domain policy.
// An empty section yields the default policy.
func (a *AppConfig) ToStatusPolicy() *domainConfig.StatusPolicy {
	if a.Status.MinWindowDays == 0 && a.Status.WindowFraction == 0 {
		return domainConfig.DefaultStatusPolicy()
	}
	return &domainConfig.StatusPolicy{
		MinWindow:      time.Duration(a.Status.MinWindowDays) * 24 * time.Hour,
		WindowFraction: a.Status.WindowFraction,
	}
}
