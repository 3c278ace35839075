// Command unitrack runs the tracker API and offers offline maintenance
// commands over the same storage.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/unitrack/internal/bootstrap"
	"github.com/yigit/unitrack/internal/config"
	"github.com/yigit/unitrack/internal/pkg/logger"
)

var (
	configPath string
	ephemeral  bool
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "unitrack",
	Short: "Track course credits and degree progress",
	Long: `unitrack keeps a personal record of courses, module areas and grades
and reports progress towards graduation.

Run "unitrack serve" to start the HTTP API. The other commands work directly
on the configured storage.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", bootstrap.DefaultConfigPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep all data in memory for this run")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(hashPassphraseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config and applies the global flags.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, lgr, err
	}
	if ephemeral {
		cfg.Storage.Driver = config.StorageMemory
	}
	if verbose {
		cfg.Logging.Level = string(logger.DebugLevel)
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		lgr = lgr.Level(zerolog.DebugLevel)
	}
	return cfg, lgr, nil
}

// openDeps opens storage and wires every dependency without starting the
// HTTP server. Callers must Close the result.
func openDeps(ctx context.Context) (*bootstrap.Dependencies, error) {
	cfg, lgr, err := loadConfig()
	if err != nil {
		return nil, err
	}
	blobs, err := bootstrap.OpenStorage(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}
	deps, err := bootstrap.BuildDependencies(ctx, cfg, blobs, lgr)
	if err != nil {
		blobs.Close()
		return nil, err
	}
	return deps, nil
}
