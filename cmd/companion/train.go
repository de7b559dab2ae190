package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/JaimeStill/companion/internal/intent"
)

// TrainCommand returns the train command.
func TrainCommand() *cli.Command {
	return &cli.Command{
		Name:      "train",
		Usage:     "Train a classifier run from a labeled dataset",
		ArgsUsage: "DATASET",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "promote",
				Usage: "Promote the run when training completes",
			},
			&cli.IntFlag{Name: "epochs", Usage: "Override training epochs"},
			&cli.IntFlag{Name: "batch-size", Usage: "Override batch size"},
			&cli.Float64Flag{Name: "learning-rate", Usage: "Override learning rate"},
			&cli.Float64Flag{Name: "eval-split", Usage: "Override evaluation split fraction"},
			&cli.Uint64Flag{Name: "seed", Usage: "Override the shuffle and split seed"},
		},
		Action: runTrain,
	}
}

func runTrain(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: companion train DATASET", 2)
	}

	e, err := loadEnv(c)
	if err != nil {
		return err
	}

	tc := e.cfg.Intent.Training
	if c.IsSet("epochs") {
		tc.Epochs = c.Int("epochs")
	}
	if c.IsSet("batch-size") {
		tc.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("learning-rate") {
		tc.LearningRate = c.Float64("learning-rate")
	}
	if c.IsSet("eval-split") {
		tc.EvalSplit = c.Float64("eval-split")
	}
	if c.IsSet("seed") {
		tc.Seed = c.Uint64("seed")
	}

	examples, err := intent.ReadDataset(c.Args().First())
	if err != nil {
		return err
	}

	enc, err := e.encoder()
	if err != nil {
		return err
	}

	store, err := e.store()
	if err != nil {
		return err
	}
	unlock, err := store.Lock()
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(); err != nil {
			e.logger.Error("release lock failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := intent.Train(ctx, examples, enc, tc, e.logger)
	stopped := errors.Is(err, intent.ErrTrainingStopped)
	if err != nil && (!stopped || result == nil) {
		return err
	}

	id, err := store.Save(result)
	if err != nil {
		return err
	}

	if stopped {
		e.logger.Warn("training interrupted, run saved without promotion", "run", id)
		return cli.Exit(fmt.Sprintf("run %s was stopped early and cannot be promoted", id), 130)
	}

	e.logger.Info("run saved", "run", id, "path", store.Path(id))

	if len(result.Eval) > 0 {
		classifier, err := intent.NewClassifier(result, enc)
		if err != nil {
			return err
		}
		report, err := intent.Evaluate(ctx, classifier, result.Eval)
		if err != nil {
			return err
		}
		if err := report.WriteText(c.App.Writer); err != nil {
			return err
		}
	}

	if c.Bool("promote") {
		if err := store.Promote(id); err != nil {
			return err
		}
		e.logger.Info("run promoted", "run", id)
	}

	fmt.Fprintln(c.App.Writer, id)
	return nil
}
