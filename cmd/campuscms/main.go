// Command campuscms runs the campus website CMS.
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"campuscms/internal/config"
	"campuscms/internal/database"
	"campuscms/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "campuscms",
	Short:         "Campus website content management system",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "campuscms.yaml", "path to the configuration file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, adminCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is what every command starts from: the configuration, a logger and a
// migrated database.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *sql.DB
}

func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, _, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	log.Debug("database migrated", zap.String("dsn", cfg.Database.DSN))
	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) close() {
	a.db.Close()
	a.log.Sync()
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()
		a.log.Info("database migrated", zap.String("dsn", a.cfg.Database.DSN))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to --config",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists", configPath)
		}
		if err := config.DefaultConfig().Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
