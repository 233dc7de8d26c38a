package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/config"
)

// NewMigrateCmd создаёт группу команд миграций postgres.
func NewMigrateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Миграции схемы postgres",
	}
	cmd.AddCommand(newMigrateUpCmd(app), newMigrateDownCmd(app))
	return cmd
}

func newMigrateUpCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Применить все миграции",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requirePostgres(); err != nil {
				return err
			}
			db, err := config.OpenPostgres(cmd.Context(), app.Cfg.DB, app.Log)
			if err != nil {
				return err
			}
			defer db.Close()
			return config.MigrateUp(db, app.Cfg.Migrations.Path, app.Log)
		},
	}
}

func newMigrateDownCmd(app *App) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Откатить миграции (по умолчанию одну)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requirePostgres(); err != nil {
				return err
			}
			db, err := config.OpenPostgres(cmd.Context(), app.Cfg.DB, app.Log)
			if err != nil {
				return err
			}
			defer db.Close()
			return config.MigrateDown(db, app.Cfg.Migrations.Path, steps, app.Log)
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "how many migrations to roll back, 0 — all")
	return cmd
}

func (a *App) requirePostgres() error {
	if a.Cfg.DB.Driver != "postgres" {
		return errors.New("migrations are only used with db.driver=postgres")
	}
	return nil
}
