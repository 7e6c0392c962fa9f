package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"posts/internal/config"
	"posts/internal/database"
	"posts/internal/redisclient"
	"posts/internal/seed"
	"posts/internal/service"
	"posts/internal/session"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const pingTimeout = 5 * time.Second

// openStore loads configuration and connects, which also ensures the schema.
func openStore() (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, db, nil
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the users and posts tables and verify foreign keys are enforced",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			fmt.Fprintf(cmd.OutOrStdout(), "Schema ready (%s)\n", cfg.DBDriver)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert fake users and posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, _ := cmd.Flags().GetInt("users")
			posts, _ := cmd.Flags().GetInt("posts")
			seedValue, _ := cmd.Flags().GetInt64("seed")

			_, db, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			sessions := session.NewManager(db)
			res, err := seed.Run(cmd.Context(),
				service.NewUserService(sessions),
				service.NewPostService(sessions),
				seed.Options{Users: users, PostsPerUser: posts, Seed: seedValue},
			)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %d users and %d posts\n", len(res.Users), res.Posts)
			return nil
		},
	}

	cmd.Flags().Int("users", 10, "Number of users to create")
	cmd.Flags().Int("posts", 3, "Number of posts per user")
	cmd.Flags().Int64("seed", 0, "Random seed (0 picks one)")

	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Print the effective configuration and ping the store and Redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-12s  %s\n", "Environment", cfg.Env)
			fmt.Fprintf(out, "%-12s  %s\n", "Driver", cfg.DBDriver)
			if cfg.DBDriver == config.DriverSQLite {
				fmt.Fprintf(out, "%-12s  %s\n", "Path", cfg.DBPath)
			} else {
				fmt.Fprintf(out, "%-12s  %s:%s/%s\n", "Host", cfg.DBHost, cfg.DBPort, cfg.DBName)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
			defer cancel()

			dbStatus := "ok"
			if err := database.Ping(ctx, db); err != nil {
				dbStatus = err.Error()
			}
			fmt.Fprintf(out, "%-12s  %s\n", "Database", dbStatus)

			redisStatus := "disabled"
			rdb, err := redisclient.Connect(ctx, cfg.RedisURL)
			switch {
			case err != nil:
				redisStatus = err.Error()
			case rdb != nil:
				redisStatus = "ok"
				_ = rdb.Close()
			}
			fmt.Fprintf(out, "%-12s  %s\n", "Redis", redisStatus)

			if dbStatus != "ok" {
				return errors.New("database check failed")
			}
			return nil
		},
	}
}
