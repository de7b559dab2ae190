package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/JaimeStill/companion/internal/api"
	"github.com/JaimeStill/companion/internal/infrastructure"
	"github.com/JaimeStill/companion/pkg/openapi"
)

// OpenAPICommand returns the openapi command.
func OpenAPICommand() *cli.Command {
	return &cli.Command{
		Name:  "openapi",
		Usage: "Write the API OpenAPI document",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path, - for stdout",
				Value:   "openapi.json",
			},
		},
		Action: runOpenAPI,
	}
}

func runOpenAPI(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}

	infra, err := infrastructure.New(e.cfg)
	if err != nil {
		return err
	}
	runtime := api.NewRuntime(e.cfg, infra)
	domain, err := api.NewDomain(runtime, e.cfg)
	if err != nil {
		return err
	}

	spec := api.Spec(e.cfg, api.Groups(domain)...)

	out := c.String("output")
	if out == "-" {
		return openapi.Encode(c.App.Writer, spec)
	}
	if err := openapi.WriteJSON(spec, out); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", out)
	return nil
}
