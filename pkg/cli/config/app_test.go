package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/safework-lab/talos/pkg/cli/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talos.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func loadConfig(t *testing.T, path string) *config.AppConfig {
	t.Helper()
	return config.NewAppConfigForTest(path)
}

func TestAppConfigDefaults(t *testing.T) {
	var cfg config.AppConfig

	matrix, policy, err := cfg.Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, matrix.FrequencyMax).Equal(5)
	gt.Value(t, matrix.SeverityMax).Equal(5)
	gt.Array(t, matrix.Bands).Length(4)
	gt.Value(t, policy.MinWindow).Equal(7 * 24 * time.Hour)
	gt.Value(t, policy.WindowFraction).Equal(0.10)
}

func TestAppConfigLoad(t *testing.T) {
	path := writeConfig(t, `
[matrix]
frequency_max = 3
severity_max = 3

[[matrix.band]]
min = 1
max = 4
label = "low"

[[matrix.band]]
min = 5
max = 9
label = "high"

[status]
min_window_days = 3
window_fraction = 0.2
`)

	cfg := loadConfig(t, path)
	matrix, policy, err := cfg.Configure()
	gt.NoError(t, err).Required()

	gt.Value(t, matrix.FrequencyMax).Equal(3)
	gt.Array(t, matrix.Bands).Length(2)
	gt.Value(t, matrix.Bands[1].Label).Equal("high")
	gt.Value(t, policy.MinWindow).Equal(3 * 24 * time.Hour)
	gt.Value(t, policy.WindowFraction).Equal(0.2)
}

func TestAppConfigInvalid(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := loadConfig(t, filepath.Join(t.TempDir(), "absent.toml"))
		_, _, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("band gap", func(t *testing.T) {
		path := writeConfig(t, `
[matrix]
frequency_max = 3
severity_max = 3

[[matrix.band]]
min = 1
max = 3
label = "low"

[[matrix.band]]
min = 5
max = 9
label = "high"
`)
		cfg := loadConfig(t, path)
		_, _, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("band without label", func(t *testing.T) {
		path := writeConfig(t, `
[matrix]
frequency_max = 2
severity_max = 2

[[matrix.band]]
min = 1
max = 4
label = ""
`)
		cfg := loadConfig(t, path)
		_, _, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("malformed toml", func(t *testing.T) {
		cfg := loadConfig(t, writeConfig(t, "[[matrix"))
		_, _, err := cfg.Configure()
		gt.Error(t, err)
	})
}
