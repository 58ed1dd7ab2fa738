package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"resumecrafter/internal/config"
)

var envFile string

// rootCmd runs the HTTP server
var rootCmd = &cobra.Command{
	Use:   "resumecrafter",
	Short: "Resume generation backend",
	Long: `Serves the chat store, preference store and streaming resume
generation endpoints.

Configuration is read from the environment; a .env file is loaded first
when present.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), loadConfig())
	},
}

// migrateCmd creates the document store tables
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the chat and preference tables",
	Long: `Creates the environment-prefixed chats, user_chats and
user_preferences tables in DATABASE_URL. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context(), loadConfig())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(migrateCmd)
}

func loadConfig() *config.Config {
	// Missing file is fine in production, where the environment is set directly
	_ = godotenv.Load(envFile)
	return config.Load()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
