package notion

import (
	"context"
	"time"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/types"
	"github.com/safework-lab/talos/pkg/utils/logging"
)

// client implements Service interface
type client struct {
	api *notionapi.Client
}

// New creates a new Notion service with the provided API token
func New(token string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Notion API token is required")
	}

	return &client{
		api: notionapi.NewClient(
			notionapi.Token(token),
			notionapi.WithRetry(3), // Retry up to 3 times on rate limit (HTTP 429)
		),
	}, nil
}

// ListCatalogEntries retrieves all rows of the catalog database
func (c *client) ListCatalogEntries(ctx context.Context, databaseID string) ([]CatalogEntry, error) {
	var entries []CatalogEntry
	var cursor notionapi.Cursor

	for {
		resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(databaseID), &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    100,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to query catalog database", goerr.V("databaseID", databaseID))
		}

		for _, page := range resp.Results {
			entry, err := pageToEntry(&page)
			if err != nil {
				// Malformed rows are reported and skipped; one broken
				// page must not abort a whole import.
				logging.From(ctx).Warn("skipping malformed catalog page",
					"pageID", page.ID.String(), "error", err.Error())
				continue
			}
			entries = append(entries, entry)
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return entries, nil
}

func pageToEntry(page *notionapi.Page) (CatalogEntry, error) {
	entry := CatalogEntry{
		DocumentCount: 1,
	}

	for name, prop := range page.Properties {
		switch name {
		case "GroupID":
			entry.GroupID = types.GroupID(richTextValue(prop))
		case "GroupName":
			entry.GroupName = richTextValue(prop)
		case "ItemNumber":
			entry.ItemNumber = int(numberValue(prop))
		case "DocumentName":
			entry.DocumentName = richTextValue(prop)
		case "DocumentCount":
			if n := int(numberValue(prop)); n > 0 {
				entry.DocumentCount = n
			}
		case "Cycle":
			entry.Cycle = uint(numberValue(prop))
		case "CycleUnit":
			unit, err := types.ParseCycleUnit(selectValue(prop))
			if err != nil {
				return CatalogEntry{}, goerr.Wrap(err, "invalid cycle unit property")
			}
			entry.CycleUnit = unit
		case "LastWrittenAt":
			entry.LastWrittenAt = dateValue(prop)
		}
	}

	if err := entry.GroupID.Validate(); err != nil {
		return CatalogEntry{}, goerr.Wrap(err, "invalid group ID property")
	}
	if entry.ItemNumber < 1 {
		return CatalogEntry{}, goerr.New("item number property must be positive")
	}
	if entry.DocumentName == "" {
		return CatalogEntry{}, goerr.New("document name property is required")
	}
	if !entry.CycleUnit.IsValid() {
		return CatalogEntry{}, goerr.New("cycle unit property is required")
	}

	return entry, nil
}

func richTextValue(prop notionapi.Property) string {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return concatRichText(p.Title)
	case *notionapi.RichTextProperty:
		return concatRichText(p.RichText)
	default:
		return ""
	}
}

func concatRichText(parts []notionapi.RichText) string {
	var out string
	for _, part := range parts {
		out += part.PlainText
	}
	return out
}

func numberValue(prop notionapi.Property) float64 {
	if p, ok := prop.(*notionapi.NumberProperty); ok {
		return p.Number
	}
	return 0
}

func selectValue(prop notionapi.Property) string {
	if p, ok := prop.(*notionapi.SelectProperty); ok {
		return p.Select.Name
	}
	return ""
}

func dateValue(prop notionapi.Property) time.Time {
	if p, ok := prop.(*notionapi.DateProperty); ok && p.Date != nil && p.Date.Start != nil {
		return time.Time(*p.Date.Start)
	}
	return time.Time{}
}
