package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"threatdash/internal/config"
	"threatdash/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply report-store schema migrations (postgres and sqlite stores)",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{"store_driver": "store"})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.StoreDriver == config.DriverFile {
			return fmt.Errorf("the %s store has no schema; set STORE_DRIVER to %s or %s", config.DriverFile, config.DriverPostgres, config.DriverSQLite)
		}
		// openStore migrates SQL stores on open.
		store, err := openStore(cmd.Context(), cfg, logging.Log)
		if err != nil {
			return err
		}
		defer store.Close()
		logging.Log.Infof("%s store is up to date", cfg.StoreDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().String("store", "", "report store: postgres or sqlite")
}
