// Command geckoctl inspects and exercises Gecko Puzzle level configurations.
//
// Subcommands:
//   - validate: parse every config in a directory and check that each zone is reachable
//   - analyze:  report per-level routes, required pace and zones that share a tile
//   - simulate: play a config with a route-planning bot, locally or against a running server
package main

import (
	"context"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/gecko-puzzle/logger"
)

const version = "1.0.0"

func main() {
	logger.Init()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		logger.Log.WithError(err).Error("geckoctl failed")
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "geckoctl",
		Usage:   "inspect and exercise Gecko Puzzle level configurations",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				logger.SetDebug()
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "validate configuration files",
				ArgsUsage: "[file.json ...]",
				Flags: []cli.Flag{
					configDirFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					files, err := configFiles(cmd.String("dir"), cmd.Args().Slice())
					if err != nil {
						return err
					}
					return validateFiles(cmd.Root().Writer, files)
				},
			},
			{
				Name:      "analyze",
				Usage:     "print route and pacing heuristics for configuration files",
				ArgsUsage: "[file.json ...]",
				Flags: []cli.Flag{
					configDirFlag(),
					&cli.IntFlag{Name: "levels", Value: 3, Usage: "levels to analyze for procedural configs"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					files, err := configFiles(cmd.String("dir"), cmd.Args().Slice())
					if err != nil {
						return err
					}
					return analyzeFiles(cmd.Root().Writer, files, int(cmd.Int("levels")))
				},
			},
			{
				Name:      "simulate",
				Usage:     "play a configuration with the route-planning bot",
				ArgsUsage: "[config]",
				Flags: []cli.Flag{
					configDirFlag(),
					&cli.StringFlag{Name: "url", Usage: "play a session on this server instead of a local engine"},
					&cli.IntFlag{Name: "levels", Value: 3, Usage: "stop after clearing this many levels"},
					&cli.IntFlag{Name: "max-moves", Value: 2000, Usage: "maximum bot decisions before giving up"},
					&cli.DurationFlag{Name: "step", Value: 250 * time.Millisecond, Usage: "game time that passes between moves"},
				},
				Action: runSimulate,
			},
		},
	}
}

func configDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Value:   "configs",
		Usage:   "directory containing configuration files",
		Sources: cli.EnvVars("CONFIG_DIR"),
	}
}
