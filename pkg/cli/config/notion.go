package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/service/notion"
	"github.com/urfave/cli/v3"
)

// Notion holds CLI flags for the obligation catalog integration
type Notion struct {
	apiToken   string
	databaseID string
}

func (x *Notion) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "notion-api-token",
			Usage:       "Notion API token for catalog import",
			Category:    "Notion",
			Sources:     cli.EnvVars("TALOS_NOTION_API_TOKEN"),
			Destination: &x.apiToken,
		},
		&cli.StringFlag{
			Name:        "notion-database-id",
			Usage:       "Notion database ID holding the obligation catalog",
			Category:    "Notion",
			Sources:     cli.EnvVars("TALOS_NOTION_DATABASE_ID"),
			Destination: &x.databaseID,
		},
	}
}

func (x Notion) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("api-token.len", len(x.apiToken)),
		slog.String("database-id", x.databaseID),
	)
}

// IsConfigured reports whether a Notion token was provided
func (x *Notion) IsConfigured() bool {
	return x.apiToken != ""
}

// DatabaseID returns the catalog database ID
func (x *Notion) DatabaseID() string {
	return x.databaseID
}

// Configure returns a catalog service backed by the Notion API
func (x *Notion) Configure() (notion.Service, error) {
	if x.apiToken == "" {
		return nil, goerr.New("notion-api-token is required")
	}
	if x.databaseID == "" {
		return nil, goerr.Wrap(ErrMissingDatabase, "")
	}
	return notion.New(x.apiToken)
}
