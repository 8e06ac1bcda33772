// Package main boots the petshop catalog service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/petshop-catalog-service/internal/config"
	"github.com/fairyhunter13/petshop-catalog-service/internal/obs"
)

var (
	configFile string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "petshop-catalog",
	Short: "Petshop product catalog and pet recommendation service",
	Long: `petshop-catalog manages the petshop product catalog over HTTP and
recommends catalog products for a pet using a generative model.

Configuration comes from defaults, then the YAML file named by --config
or CONFIG_FILE, then environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			if err := os.Setenv("CONFIG_FILE", configFile); err != nil {
				return err
			}
		}
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		obs.InitLogger(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")
	rootCmd.RunE = runServe
	rootCmd.AddCommand(serveCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		obs.Logger.Error("command_failed", "error", err)
		os.Exit(1)
	}
}
