package notion

import (
	"context"
	"time"

	"github.com/safework-lab/talos/pkg/domain/types"
)

// CatalogEntry is one obligation row read from a Notion catalog
// database: the group it belongs to plus the item's cycle definition.
type CatalogEntry struct {
	GroupID       types.GroupID
	GroupName     string
	ItemNumber    int
	DocumentName  string
	DocumentCount int
	Cycle         uint
	CycleUnit     types.CycleUnit
	LastWrittenAt time.Time
}

// Service reads an obligation catalog maintained in Notion
type Service interface {
	// ListCatalogEntries retrieves all rows of the catalog database
	ListCatalogEntries(ctx context.Context, databaseID string) ([]CatalogEntry, error)
}
