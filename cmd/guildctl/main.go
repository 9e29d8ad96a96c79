// Package main provides guildctl, the Guildhall operator CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgo/guildhall/api/internal/config"
	"github.com/forgo/guildhall/api/internal/database"
)

var (
	// timeout bounds every command's store work. Set by --timeout.
	timeout time.Duration

	// verbose switches logging to debug. Set by --verbose.
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "guildctl",
	Short: "guildctl administers a Guildhall deployment",
	Long: `guildctl applies the database schema, loads sample data and mints
access tokens, and switches accounts on or off. It reads the same environment (and .env file) as the server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "deadline for the whole command")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(userCmd)
}

// connect loads configuration and opens the store. The caller closes it.
func connect(ctx context.Context) (*config.Config, database.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.URL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required")
	}
	dbCfg, err := cfg.DatabaseConnection()
	if err != nil {
		return nil, nil, fmt.Errorf("DATABASE_URL is invalid: %w", err)
	}

	db := database.NewSurrealDB(dbCfg)
	if err := db.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("connect %s: %w", dbCfg.Endpoint(), err)
	}
	slog.Debug("connected to database",
		slog.String("endpoint", dbCfg.Endpoint()),
		slog.String("namespace", dbCfg.Namespace),
		slog.String("database", dbCfg.Database),
	)
	return cfg, db, nil
}

// commandContext returns a context bounded by --timeout
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
