package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/diario/diario/internal/cache"
	"github.com/diario/diario/internal/logging"
	"github.com/diario/diario/internal/repository"
	"github.com/diario/diario/internal/seed"
)

func newSeedCmd(c *cli) *cobra.Command {
	var opts seed.Options

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the fixture user and post, plus optional fake data",
		Long: `Creates teste@teste.com with its first entry when missing.
Running it again does not duplicate anything. With --fake-users, random
users and posts are added on every run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := c.requireDatabase()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
			defer cancel()

			repo, err := repository.New(ctx, dsn, repository.WithMaxConns(4), repository.WithMinConns(1))
			if err != nil {
				return errors.New(logging.SanitizeError(err, dsn))
			}
			defer repo.Close()

			opts.Logger = c.logger
			result, err := seed.Run(ctx, repo, opts)
			if err != nil {
				return err
			}

			if result.PostsCreated > 0 {
				c.dropCachedPosts(ctx)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "fixture user %s: %d users and %d posts created\n",
				result.FixtureUserID, result.UsersCreated, result.PostsCreated)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.FakeUsers, "fake-users", 0, "Number of random users to add")
	cmd.Flags().IntVar(&opts.PostsPerUser, "posts-per-user", 3, "Posts written for each random user")
	cmd.Flags().Int64Var(&opts.RandSeed, "rand-seed", 0, "Seed for reproducible fake data (0 = random)")

	return cmd
}

// dropCachedPosts invalidates the API's cached listing. It is best effort.
func (c *cli) dropCachedPosts(ctx context.Context) {
	if c.cfg.RedisURL == "" {
		return
	}

	cacheClient, err := cache.New(ctx, c.cfg.RedisURL)
	if err != nil {
		c.logger.Warn("skipping cache invalidation",
			slog.String("error", logging.SanitizeError(err, c.cfg.RedisURL)))
		return
	}
	defer cacheClient.Close()

	if err := cacheClient.InvalidatePosts(ctx); err != nil {
		c.logger.Warn("cache invalidation failed", slog.String("error", err.Error()))
	}
}
