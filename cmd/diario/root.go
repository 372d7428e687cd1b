package main

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/diario/diario/internal/config"
	"github.com/diario/diario/internal/logging"
)

// cli carries state shared by every subcommand.
type cli struct {
	databaseURL string
	redisURL    string
	logLevel    string
	timeout     time.Duration

	cfg    *config.ToolConfig
	logger *slog.Logger
}

var errNoDatabaseURL = errors.New("database URL required: set DATABASE_URL or pass --database-url")

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "diario",
		Short:         "Maintenance commands for the diario journal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.databaseURL, "database-url", "", "PostgreSQL URL (default: $DATABASE_URL)")
	root.PersistentFlags().StringVar(&c.redisURL, "redis-url", "", "Redis URL used to drop cached listings (default: $REDIS_URL)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error (default: $LOG_LEVEL)")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 2*time.Minute, "Operation timeout")

	root.AddCommand(newMigrateCmd(c))
	root.AddCommand(newSeedCmd(c))

	return root
}

// init merges flags over the environment and builds the logger.
func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := config.LoadTool()
	if err != nil {
		return err
	}

	if c.databaseURL != "" {
		cfg.DatabaseURL = c.databaseURL
	}
	if c.redisURL != "" {
		cfg.RedisURL = c.redisURL
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}

	c.cfg = cfg
	c.logger = logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
	return nil
}

func (c *cli) requireDatabase() (string, error) {
	if c.cfg == nil || c.cfg.DatabaseURL == "" {
		return "", errNoDatabaseURL
	}
	return c.cfg.DatabaseURL, nil
}
