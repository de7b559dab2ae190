package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const version = "0.1.0"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "companion",
		Usage:   "Train, inspect, and serve the companion intent classifier",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
				Value:   "config.toml",
			},
		},
		Commands: []*cli.Command{
			TrainCommand(),
			EvaluateCommand(),
			RunsCommand(),
			PromoteCommand(),
			DecideCommand(),
			PublishCommand(),
			FetchCommand(),
			PublishedCommand(),
			UserCommand(),
			OpenAPICommand(),
		},
	}
}
