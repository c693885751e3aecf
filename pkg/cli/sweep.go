package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/cli/config"
	"github.com/safework-lab/talos/pkg/usecase"
	"github.com/safework-lab/talos/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdSweep() *cli.Command {
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var slackCfg config.Slack

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:  "sweep",
		Usage: "Reclassify all item statuses once and deliver due reminders",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			_, policy, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
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

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure notifier")
			}

			uc := usecase.New(repo,
				usecase.WithStatusPolicy(policy),
				usecase.WithNotifier(notifier),
			)

			now := time.Now()

			result, err := uc.Status.Sweep(ctx, now)
			if err != nil {
				return goerr.Wrap(err, "status sweep failed")
			}
			logger.Info("Status sweep completed",
				"total", result.Total,
				"updated", result.Updated,
			)

			delivered, err := uc.Status.PollReminders(ctx, now)
			if err != nil {
				return goerr.Wrap(err, "reminder poll failed")
			}
			logger.Info("Reminder poll completed", "delivered", delivered)

			return nil
		},
	}
}
