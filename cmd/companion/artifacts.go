package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/JaimeStill/companion/pkg/formatting"
)

// RunsCommand returns the runs command.
func RunsCommand() *cli.Command {
	return &cli.Command{
		Name:   "runs",
		Usage:  "List saved training runs, newest first",
		Action: runRuns,
	}
}

func runRuns(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	store, err := e.store()
	if err != nil {
		return err
	}
	runs, err := store.Runs()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tLABELS\tENCODER\tEVAL LOSS\tACCURACY\tSTATE")
	for _, r := range runs {
		state := ""
		switch {
		case r.Current:
			state = "current"
		case r.Stopped:
			state = "stopped"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%.4f\t%.3f\t%s\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), len(r.Labels), r.Encoder,
			r.BestEvalLoss, r.EvalAccuracy, state)
	}
	return tw.Flush()
}

// PromoteCommand returns the promote command.
func PromoteCommand() *cli.Command {
	return &cli.Command{
		Name:      "promote",
		Usage:     "Make a completed run the served classifier",
		ArgsUsage: "RUN",
		Action:    runPromote,
	}
}

func runPromote(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: companion promote RUN", 2)
	}
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	store, err := e.store()
	if err != nil {
		return err
	}

	id := c.Args().First()
	if err := store.Promote(id); err != nil {
		return err
	}
	e.logger.Info("run promoted", "run", id)
	return nil
}

// PublishCommand returns the publish command.
func PublishCommand() *cli.Command {
	return &cli.Command{
		Name:      "publish",
		Usage:     "Upload a run bundle to blob storage",
		ArgsUsage: "RUN",
		Action:    runPublish,
	}
}

func runPublish(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: companion publish RUN", 2)
	}
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	blobs, err := e.blobs()
	if err != nil {
		return err
	}
	sys, err := e.intentSystem(c, blobs)
	if err != nil {
		return err
	}

	key, err := sys.Publish(c.Context, c.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, key)
	return nil
}

// FetchCommand returns the fetch command.
func FetchCommand() *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Download a published run bundle into the local store",
		ArgsUsage: "RUN",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "promote",
				Usage: "Promote the run after it is fetched",
			},
		},
		Action: runFetch,
	}
}

func runFetch(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: companion fetch [--promote] RUN", 2)
	}
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	blobs, err := e.blobs()
	if err != nil {
		return err
	}
	sys, err := e.intentSystem(c, blobs)
	if err != nil {
		return err
	}

	id := c.Args().First()
	if err := sys.Fetch(c.Context, id); err != nil {
		return err
	}
	if c.Bool("promote") {
		return sys.Promote(id)
	}
	return nil
}

// PublishedCommand returns the published command.
func PublishedCommand() *cli.Command {
	return &cli.Command{
		Name:   "published",
		Usage:  "List run bundles in blob storage",
		Action: runPublished,
	}
}

func runPublished(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	blobs, err := e.blobs()
	if err != nil {
		return err
	}
	sys, err := e.intentSystem(c, blobs)
	if err != nil {
		return err
	}

	bundles, err := sys.Published(c.Context)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSIZE\tMODIFIED")
	for _, b := range bundles {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Key, formatting.FormatBytes(b.Size, 1), b.LastModified.Format(time.RFC3339))
	}
	return tw.Flush()
}
