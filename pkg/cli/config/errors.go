package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound  = goerr.New("configuration file not found")
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrInvalidBand     = goerr.New("invalid risk band")
	ErrInvalidBackend  = goerr.New("invalid repository backend")
	ErrMissingProject  = goerr.New("firestore-project-id is required")
	ErrMissingChannel  = goerr.New("slack-channel-id is required when slack-oauth-token is set")
	ErrMissingDatabase = goerr.New("notion-database-id is required when notion-api-token is set")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	BandIndexKey  = "band_index"
	BackendKey    = "backend"
)
