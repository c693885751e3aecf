package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/cli/config"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/usecase"
	"github.com/safework-lab/talos/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdImport() *cli.Command {
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var notionCfg config.Notion

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, notionCfg.Flags()...)

	return &cli.Command{
		Name:  "import",
		Usage: "Import the obligation catalog from Notion",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			_, policy, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}

			catalogSvc, err := notionCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure notion service")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			entries, err := catalogSvc.ListCatalogEntries(ctx, notionCfg.DatabaseID())
			if err != nil {
				return goerr.Wrap(err, "failed to fetch catalog from notion")
			}
			logger.Info("Fetched catalog entries", "notion", notionCfg, "count", len(entries))

			uc := usecase.New(repo, usecase.WithStatusPolicy(policy))

			var imported int
			for _, entry := range entries {
				if _, err := uc.Catalog.AddGroup(ctx, &model.Group{
					ID:   entry.GroupID,
					Name: entry.GroupName,
				}); err != nil {
					return goerr.Wrap(err, "failed to import group",
						goerr.V("group_id", entry.GroupID))
				}

				if _, err := uc.Catalog.AddItem(ctx, &model.Item{
					GroupID:       entry.GroupID,
					ItemNumber:    entry.ItemNumber,
					DocumentName:  entry.DocumentName,
					DocumentCount: entry.DocumentCount,
					Cycle:         entry.Cycle,
					CycleUnit:     entry.CycleUnit,
					LastWrittenAt: entry.LastWrittenAt,
				}); err != nil {
					return goerr.Wrap(err, "failed to import item",
						goerr.V("group_id", entry.GroupID),
						goerr.V("item_number", entry.ItemNumber))
				}
				imported++
			}

			logger.Info("Catalog import completed", "imported", imported)
			return nil
		},
	}
}
