package db

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	migrationFileNamePattern = regexp.MustCompile(`^(\d+)_[a-z0-9_]+\.sql$`)
	addColumnPattern         = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+([^\s]+)\s+ADD\s+COLUMN\s+([^\s]+)\b`)
)

var ErrEmptyMigration = errors.New("migration has no statements")

type schemaMigration struct {
	Version int
	Name    string
	SQL     string
}

// Migrator applies numbered *.sql files from source in ascending order and
// records each one in schema_migrations. Applied versions are never re-run.
type Migrator struct {
	database *gorm.DB
	source   fs.FS
	log      logrus.FieldLogger
}

func NewMigrator(database *gorm.DB, source fs.FS, log logrus.FieldLogger) *Migrator {
	return &Migrator{database: database, source: source, log: log}
}

func (migrator *Migrator) Up() error {
	if err := migrator.database.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`).Error; err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	pending, err := migrator.Pending()
	if err != nil {
		return err
	}
	for _, migration := range pending {
		if err := migrator.apply(migration); err != nil {
			return err
		}
		migrator.log.WithField("migration", migration.Name).Info("applied schema migration")
	}
	return nil
}

// Pending lists migrations not yet recorded as applied.
func (migrator *Migrator) Pending() ([]schemaMigration, error) {
	all, err := migrator.load()
	if err != nil {
		return nil, err
	}

	var versions []int
	if err := migrator.database.Raw(`SELECT version FROM schema_migrations`).Scan(&versions).Error; err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}
	applied := make(map[int]bool, len(versions))
	for _, version := range versions {
		applied[version] = true
	}

	pending := make([]schemaMigration, 0, len(all))
	for _, migration := range all {
		if !applied[migration.Version] {
			pending = append(pending, migration)
		}
	}
	return pending, nil
}

func (migrator *Migrator) load() ([]schemaMigration, error) {
	entries, err := fs.ReadDir(migrator.source, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	migrations := make([]schemaMigration, 0, len(entries))
	byVersion := make(map[int]string, len(entries))
	for _, entry := range entries {
		matches := migrationFileNamePattern.FindStringSubmatch(entry.Name())
		if entry.IsDir() || matches == nil {
			continue
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("parse version of %s: %w", entry.Name(), err)
		}
		if previous, ok := byVersion[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %d in %s and %s", version, previous, entry.Name())
		}
		byVersion[version] = entry.Name()

		body, err := fs.ReadFile(migrator.source, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, schemaMigration{Version: version, Name: entry.Name(), SQL: string(body)})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func (migrator *Migrator) apply(migration schemaMigration) error {
	statements := splitStatements(migration.SQL)
	if len(statements) == 0 {
		return fmt.Errorf("%s: %w", migration.Name, ErrEmptyMigration)
	}

	return migrator.database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range statements {
			exists, err := columnAlreadyAdded(tx, statement)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", migration.Name, err)
			}
			if exists {
				continue
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute %s: %w", migration.Name, err)
			}
		}
		return tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
			migration.Version, migration.Name).Error
	})
}

func splitStatements(body string) []string {
	statements := make([]string, 0)
	for _, part := range strings.Split(body, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// columnAlreadyAdded makes ADD COLUMN statements idempotent, since SQLite has
// no ADD COLUMN IF NOT EXISTS.
func columnAlreadyAdded(tx *gorm.DB, statement string) (bool, error) {
	matches := addColumnPattern.FindStringSubmatch(statement)
	if matches == nil {
		return false, nil
	}
	table := unquoteIdentifier(matches[1])
	column := unquoteIdentifier(matches[2])

	var columns []struct {
		Name string `gorm:"column:name"`
	}
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, strings.ReplaceAll(table, `"`, `""`))
	if err := tx.Raw(query).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("table_info %s: %w", table, err)
	}
	for _, existing := range columns {
		if strings.EqualFold(existing.Name, column) {
			return true, nil
		}
	}
	return false, nil
}

func unquoteIdentifier(identifier string) string {
	return strings.Trim(strings.TrimSpace(identifier), "\"`[]")
}
