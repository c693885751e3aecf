package cli

import (
	"context"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var appCfg config.AppConfig

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration file and print the resolved settings",
		Flags:   appCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			matrix, policy, err := appCfg.Configure()
			if err != nil {
				color.Red("✗ configuration invalid: %v", err)
				return goerr.Wrap(err, "configuration validation failed")
			}

			if appCfg.Path() == "" {
				color.Yellow("no config file given, showing defaults")
			} else {
				color.Green("✓ %s is valid", appCfg.Path())
			}

			bold := color.New(color.Bold)

			bold.Println("Risk matrix")
			color.White("  scales: frequency 1-%d, severity 1-%d", matrix.FrequencyMax, matrix.SeverityMax)
			for _, band := range matrix.Bands {
				color.White("  %2d-%2d  %s", band.MinValue, band.MaxValue, band.Label)
			}

			bold.Println("Status policy")
			color.White("  minimum warning window: %s", policy.MinWindow)
			color.White("  window fraction: %.0f%% of the renewal period", policy.WindowFraction*100)
			color.White("  example: 1 year cycle warns %s ahead",
				policy.ApproachingWindow(365*24*time.Hour))

			return nil
		},
	}
}
