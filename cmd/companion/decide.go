package main

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/JaimeStill/companion/internal/intent"
)

// DecideCommand returns the decide command.
func DecideCommand() *cli.Command {
	return &cli.Command{
		Name:      "decide",
		Usage:     "Run the intent decision for a sentence against the promoted run",
		ArgsUsage: "TEXT...",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "score", Usage: "Sentiment score in [-1, 1]"},
			&cli.Float64Flag{Name: "magnitude", Usage: "Sentiment magnitude, 0 or more"},
		},
		Action: runDecide,
	}
}

func runDecide(c *cli.Context) error {
	text := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return cli.Exit("usage: companion decide [--score S --magnitude M] TEXT...", 2)
	}

	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	sys, err := e.intentSystem(c, nil)
	if err != nil {
		return err
	}

	if sys.Status().Capabilities.Classifier {
		if _, err := sys.Reload(); err != nil {
			if !errors.Is(err, intent.ErrNoArtifact) {
				return err
			}
			e.logger.Warn("no promoted classifier, matcher only")
		}
	}

	var sent *intent.Sentiment
	if c.IsSet("score") || c.IsSet("magnitude") {
		sent = &intent.Sentiment{
			Score:     c.Float64("score"),
			Magnitude: c.Float64("magnitude"),
		}
	}

	out := json.NewEncoder(c.App.Writer)
	out.SetIndent("", "  ")
	return out.Encode(sys.Decide(c.Context, text, sent))
}
