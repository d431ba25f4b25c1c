package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/deliciousroute/deliciousroute-backend/config"
	"github.com/deliciousroute/deliciousroute-backend/internal/db/migrations"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB connects with the database/sql driver matching DB_DRIVER. The
// caller must close the returned handle.
func openDB() (*sql.DB, migrations.Dialect, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}

	dialect, err := migrations.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, "", err
	}

	driver, dsn := "postgres", cfg.Database.URL()
	if dialect == migrations.DialectSQLite {
		driver, dsn = "sqlite3", cfg.Database.SQLitePath+"?_foreign_keys=on"
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, "", fmt.Errorf("connecting to database: %w", err)
	}
	return sqlDB, dialect, nil
}

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Manage the DeliciousRoute database schema",
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		sqlDB, dialect, err := openDB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if err := migrations.MigrateUp(sqlDB, dialect); err != nil {
			return err
		}

		status, err := migrations.ReadStatus(sqlDB, dialect)
		if err != nil {
			return err
		}
		fmt.Printf("Database is at version %d\n", status.Version)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied and latest schema versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sqlDB, dialect, err := openDB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		status, err := migrations.ReadStatus(sqlDB, dialect)
		if err != nil {
			return err
		}

		fmt.Printf("Dialect: %s\n", dialect)
		fmt.Printf("Applied: %d\n", status.Version)
		fmt.Printf("Latest:  %d\n", status.Latest)
		fmt.Printf("Dirty:   %t\n", status.Dirty)

		if err := migrations.CheckDBMigrationStatus(sqlDB, dialect); err != nil {
			fmt.Printf("Status:  %v\n", err)
			if check, _ := cmd.Flags().GetBool("check"); check {
				return err
			}
			return nil
		}
		fmt.Println("Status:  up to date")
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("check", false, "exit non-zero unless the schema is up to date")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(statusCmd)
}
