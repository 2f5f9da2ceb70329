// cmd/seeduser creates the admin user or resets its password.
// Uso: seeduser --username admin --password '...'
package main

import (
	"fmt"
	"os"

	"github.com/nicoxroll/tecno-car-sub000/internal/config"
	"github.com/nicoxroll/tecno-car-sub000/internal/infra"
	"github.com/nicoxroll/tecno-car-sub000/internal/repository"
	"github.com/nicoxroll/tecno-car-sub000/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.App{
		Name:  "seeduser",
		Usage: "crea o actualiza el usuario administrador",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", EnvVars: []string{"ADMIN_USERNAME"}, Value: "admin"},
			&cli.StringFlag{Name: "password", EnvVars: []string{"ADMIN_PASSWORD"}, Required: true},
			&cli.StringFlag{Name: "name", EnvVars: []string{"ADMIN_NAME"}, Value: "Administrador"},
			&cli.BoolFlag{Name: "migrate", Usage: "aplicar migraciones antes de crear el usuario"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := infra.NewDatabase(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			if c.Bool("migrate") {
				if err := infra.RunMigrations(db); err != nil {
					return err
				}
			}

			auth := service.NewAuthService(repository.NewUsuarioRepository(db), cfg)
			u, err := auth.AsegurarAdmin(c.Context, c.String("username"), c.String("name"), c.String("password"))
			if err != nil {
				return err
			}
			log.Info().Int64("id", u.ID).Str("username", u.Username).Msg("admin user ready")
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("seeduser failed")
	}
}
