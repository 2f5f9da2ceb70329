// cmd/genhash prints a bcrypt hash for a password.
// Uso: genhash <password>
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	app := &cli.App{
		Name:      "genhash",
		Usage:     "genera el hash bcrypt de una contraseña",
		ArgsUsage: "<password>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "cost", Value: 12, Usage: "costo bcrypt"},
		},
		Action: func(c *cli.Context) error {
			password := c.Args().First()
			if password == "" {
				return cli.Exit("falta la contraseña", 2)
			}
			h, err := bcrypt.GenerateFromPassword([]byte(password), c.Int("cost"))
			if err != nil {
				return err
			}
			fmt.Println(string(h))
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
