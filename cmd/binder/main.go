package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/binderhq/binder/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "binder",
	Short:   "Hierarchical document service with direct-to-bucket uploads",
	Long: `Binder is a document hierarchy server: folders and files with
soft delete, a restorable bin, and presigned S3 upload credentials
so file bytes never pass through the server.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var configFiles []string
		if cf, _ := cmd.Flags().GetString("config"); cf != "" {
			configFiles = []string{cf}
		}

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (default: sqlite, env: BINDER_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: binder.db, env: BINDER_DATABASE_DSN)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
