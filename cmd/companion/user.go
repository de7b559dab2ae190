package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/JaimeStill/companion/internal/auth"
	"github.com/JaimeStill/companion/pkg/database"
)

// UserCommand returns the user command.
func UserCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage accounts accepted by the verify endpoint",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Create a user; the password is read from stdin when not given",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password",
					},
				},
				Action: runUserAdd,
			},
		},
	}
}

func runUserAdd(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}

	password := c.String("password")
	if password == "" {
		password, err = readPassword(c.App.Reader)
		if err != nil {
			return err
		}
	}

	db, err := database.New(&e.cfg.Database, e.logger)
	if err != nil {
		return err
	}
	conn := db.Connection()
	defer conn.Close()

	user, err := auth.New(conn, e.logger).Create(c.Context, auth.CreateCommand{
		Username: c.String("username"),
		Password: password,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "created user %s (%s)\n", user.Username, user.ID)
	return nil
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
