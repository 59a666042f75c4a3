package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/halfstats/ingestor/internal/config"
)

func newMigrateCommand() *cobra.Command {
	var migrationsDir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.PersistentFlags().StringVar(&migrationsDir, "dir", "", "migrations directory (default: ./db/migrations)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(migrationsDir, func(m *migrate.Migrate) error {
					if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return err
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default one step)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					if _, err := fmt.Sscanf(args[0], "%d", &steps); err != nil || steps <= 0 {
						return fmt.Errorf("invalid down steps %q", args[0])
					}
				}
				return withMigrator(migrationsDir, func(m *migrate.Migrate) error {
					if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return err
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(migrationsDir, func(m *migrate.Migrate) error {
					version, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Println("version: none")
						return nil
					}
					if err != nil {
						return fmt.Errorf("read version: %w", err)
					}
					fmt.Printf("version: %d dirty: %t\n", version, dirty)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Force the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var version int
				if _, err := fmt.Sscanf(args[0], "%d", &version); err != nil || version < 0 {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return withMigrator(migrationsDir, func(m *migrate.Migrate) error {
					return m.Force(version)
				})
			},
		},
		&cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate up or down to a specific version",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var target uint
				if _, err := fmt.Sscanf(args[0], "%d", &target); err != nil {
					return fmt.Errorf("invalid target version %q", args[0])
				}
				return withMigrator(migrationsDir, func(m *migrate.Migrate) error {
					if err := m.Migrate(target); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return err
					}
					return nil
				})
			},
		},
	)

	return cmd
}

func withMigrator(dir string, fn func(*migrate.Migrate) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	resolved, err := resolveMigrationsDir(dir)
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(resolved), migrationDBURL(cfg))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			fmt.Fprintln(os.Stderr, "close migration source:", srcErr)
		}
		if dbErr != nil {
			fmt.Fprintln(os.Stderr, "close migration db:", dbErr)
		}
	}()

	return fn(m)
}

func resolveMigrationsDir(flagValue string) (string, error) {
	candidates := []string{
		strings.TrimSpace(flagValue),
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./db/migrations",
		"/app/db/migrations",
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}

	return "", fmt.Errorf("migration directory not found (checked --dir, MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}

// migrationDBURL mirrors the pooler compatibility flag the app applies
// when it opens its own connection.
func migrationDBURL(cfg config.Config) string {
	if !cfg.DBDisablePreparedBinary {
		return cfg.DBURL
	}

	parsed, err := url.Parse(cfg.DBURL)
	if err != nil || parsed == nil {
		return cfg.DBURL
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}
