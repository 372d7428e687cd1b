package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/diario/diario/internal/logging"
	"github.com/diario/diario/internal/schema"
)

func newMigrateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := c.requireDatabase()
			if err != nil {
				return err
			}
			if err := schema.Up(dsn); err != nil {
				return errors.New(logging.SanitizeError(err, dsn))
			}
			c.logger.Info("schema migrated up", slog.String("database_url", logging.RedactURL(dsn)))
			return nil
		},
	})

	var steps int
	var all bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateDownFlags(steps, all); err != nil {
				return err
			}
			dsn, err := c.requireDatabase()
			if err != nil {
				return err
			}
			if all {
				steps = 0
			}
			if err := schema.Down(dsn, steps); err != nil {
				return errors.New(logging.SanitizeError(err, dsn))
			}
			c.logger.Info("schema migrated down", slog.Int("steps", steps), slog.Bool("all", all))
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 0, "Number of migrations to roll back")
	down.Flags().BoolVar(&all, "all", false, "Roll back every migration")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := c.requireDatabase()
			if err != nil {
				return err
			}
			version, dirty, applied, err := schema.Version(dsn)
			if err != nil {
				return errors.New(logging.SanitizeError(err, dsn))
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatVersion(version, dirty, applied))
			return nil
		},
	})

	return cmd
}

// validateDownFlags requires an explicit choice so a bare "down" never wipes the schema.
func validateDownFlags(steps int, all bool) error {
	switch {
	case all && steps != 0:
		return errors.New("use either --steps or --all, not both")
	case !all && steps <= 0:
		return errors.New("pass --steps N (N > 0) or --all")
	}
	return nil
}

func formatVersion(version uint, dirty, applied bool) string {
	if !applied {
		return "no migrations applied"
	}
	if dirty {
		return fmt.Sprintf("%d (dirty)", version)
	}
	return fmt.Sprintf("%d", version)
}
