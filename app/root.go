// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/goinsights/goinsights/internal/config"
	"github.com/goinsights/goinsights/internal/logger"
)

var (
	configPath string // directory holding main.toml
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "goinsights",
	Short: "GoInsights is a business intelligence web service",
	Long: `GoInsights is a business intelligence web service.
It connects analytical databases and walks new deployments through a setup wizard.`,
	Args:         cobra.OnlyValidArgs,
	SilenceUsage: true,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "directory holding main.toml")
}

// loadConfig reads the configuration and sets up logging.
func loadConfig() error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
