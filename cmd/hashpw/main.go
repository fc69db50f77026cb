// Command hashpw prints a bcrypt hash for the admin password.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/okian/typerank/internal/auth"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:      "hashpw",
		Usage:     "generate TYPERANK_ADMIN_PASSWORD_HASH for the leaderboard admin",
		ArgsUsage: "[password]",
		Reader:    in,
		Writer:    out,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "cost",
				Value: bcrypt.DefaultCost,
				Usage: "bcrypt cost factor",
			},
		},
		Action: func(c *cli.Context) error {
			password := c.Args().First()
			if password == "" {
				var err error
				if password, err = prompt(c.App.Reader, c.App.Writer); err != nil {
					return err
				}
			}
			cost := c.Int("cost")
			if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
				return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
			}
			hash, err := auth.HashPassword(password, cost)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.App.Writer, "TYPERANK_ADMIN_PASSWORD_HASH=%s\n", hash)
			return err
		},
	}
}

func prompt(in io.Reader, out io.Writer) (string, error) {
	_, _ = fmt.Fprint(out, "Password: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
