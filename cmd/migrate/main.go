package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/jhoicas/ecommerce-api/internal/infrastructure/migrations"
	"github.com/jhoicas/ecommerce-api/pkg/config"
	"github.com/jhoicas/ecommerce-api/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "aplica el esquema SQL embebido sobre la base de datos configurada",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "aplica todas las migraciones pendientes",
				Action: withMigrator(func(_ *cli.Context, mg *migrations.Migrator) error {
					return mg.Up()
				}),
			},
			{
				Name:  "down",
				Usage: "revierte migraciones (todas si --steps es 0)",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Aliases: []string{"n"}, Value: 1, Usage: "cantidad de migraciones a revertir"},
				},
				Action: withMigrator(func(c *cli.Context, mg *migrations.Migrator) error {
					return mg.Down(c.Int("steps"))
				}),
			},
			{
				Name:  "version",
				Usage: "muestra la versión actual del esquema",
				Action: withMigrator(func(c *cli.Context, mg *migrations.Migrator) error {
					v, dirty, err := mg.Version()
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(c.App.Writer, "version=%d dirty=%t\n", v, dirty)
					return err
				}),
			},
			{
				Name:      "force",
				Usage:     "fija la versión sin ejecutar SQL",
				ArgsUsage: "VERSION",
				Action: withMigrator(func(c *cli.Context, mg *migrations.Migrator) error {
					if c.NArg() != 1 {
						return cli.Exit("force requiere exactamente un argumento VERSION", 2)
					}
					v, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return cli.Exit(fmt.Sprintf("versión inválida %q", c.Args().First()), 2)
					}
					return mg.Force(v)
				}),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withMigrator carga config y logger, abre el migrador y lo cierra al terminar el comando.
func withMigrator(fn func(c *cli.Context, mg *migrations.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

		mg, err := migrations.New(cfg.DB.MigrateURL(), log)
		if err != nil {
			return err
		}
		defer func() {
			if err := mg.Close(); err != nil {
				log.Warn().Err(err).Msg("cerrar migrador")
			}
		}()
		return fn(c, mg)
	}
}
