// Package cli implements the screen-time CLI commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rcliao/screen-time/internal/config"
	"github.com/rcliao/screen-time/internal/logging"
	"github.com/rcliao/screen-time/internal/logstore"
)

var (
	dirFlag    string
	configPath string
	formatFlag string

	cfg    *config.Config
	logger *slog.Logger
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "screen-time",
	Short: "Record screen-active samples and rotate them weekly",
	Long: "A small background daemon that appends a timestamp to screen-time/week.txt every interval " +
		"and moves it to screen-time/last-week.txt when a new Sunday-starting week begins.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "", "Base directory (default: $SCREEN_TIME_DIR, config dir, or home)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: "+config.DefaultPath()+")")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = c

	level := cfg.Log.Level
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		level = l
	}
	logger = logging.New(os.Stderr, logging.ParseLevel(level), cfg.Log.Format)
	slog.SetDefault(logger)
	return nil
}

func getPaths() logstore.Paths {
	if dirFlag != "" {
		return logstore.Paths{Base: dirFlag}
	}
	if cfg != nil && cfg.Dir != "" {
		return logstore.Paths{Base: cfg.Dir}
	}
	p, err := logstore.DefaultPaths()
	if err != nil {
		exitErr("resolve base dir", err)
	}
	return p
}

func printJSON(cmd *cobra.Command, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
