// Package cmd wires configuration, logging and storage into the command line
// entry points of the case analysis service.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"case-analysis/config"
	"case-analysis/database"
	"case-analysis/logging"
)

var (
	// Global flags
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "case-analysis",
	Short: "Consumer case store and keyword occurrence analysis",
	Long: `case-analysis stores consumer-complaint cases, maintains a taxonomy of
fields and search words, and reports how often each field's words occur in
the cases received within a date range.

Run "case-analysis serve" to start the HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")

	casesCmd.AddCommand(casesImportCmd)
	casesCmd.AddCommand(casesClearCmd)
	fieldsCmd.AddCommand(fieldsResetCmd)
	dbCmd.AddCommand(dbClearCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(casesCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(dbCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB opens and migrates the configured database. The caller closes it.
func openDB() (*gorm.DB, error) {
	db, err := database.Open(cfg.Database.Path, logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}
