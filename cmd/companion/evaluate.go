package main

import (
	"encoding/json"

	"github.com/urfave/cli/v2"

	"github.com/JaimeStill/companion/internal/intent"
)

// EvaluateCommand returns the evaluate command.
func EvaluateCommand() *cli.Command {
	return &cli.Command{
		Name:      "evaluate",
		Usage:     "Report precision, recall, and F1 of a run on a labeled dataset",
		ArgsUsage: "DATASET",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "run",
				Usage: "Run id or artifact directory (default: the promoted run)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the report as JSON",
			},
		},
		Action: runEvaluate,
	}
}

func runEvaluate(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: companion evaluate [--run ID] DATASET", 2)
	}

	e, err := loadEnv(c)
	if err != nil {
		return err
	}

	store, err := e.store()
	if err != nil {
		return err
	}

	var dir string
	if ref := c.String("run"); ref != "" {
		dir, err = store.Resolve(ref)
	} else {
		_, dir, err = store.Current()
	}
	if err != nil {
		return err
	}

	enc, err := e.encoder()
	if err != nil {
		return err
	}
	classifier, err := intent.LoadClassifier(dir, enc)
	if err != nil {
		return err
	}

	examples, err := intent.ReadDataset(c.Args().First())
	if err != nil {
		return err
	}

	report, err := intent.Evaluate(c.Context, classifier, examples)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	if report.Skipped > 0 {
		e.logger.Warn("examples with unknown labels skipped", "count", report.Skipped)
	}
	return report.WriteText(c.App.Writer)
}
