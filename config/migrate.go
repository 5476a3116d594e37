package config

import (
	"errors"
	"fmt"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	// Register the mysql/postgres drivers and the file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	"repairshop.GO/model/entity"
)

// Migrate brings the schema up to date. With MIGRATIONS=1 the SQL files under
// MIGRATIONS_DIR/<driver> are applied through golang-migrate; otherwise (and
// always for sqlite) gorm AutoMigrate is used.
func Migrate(db *gorm.DB) error {
	driver := DBDriver()
	if GetEnvBool("MIGRATIONS", false) && driver != DriverSQLite {
		dir := GetEnv("MIGRATIONS_DIR", "migrations")
		if err := runSQLMigrations(driver, dir, DBDSN()); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := AutoMigrate(db); err != nil {
		return err
	}
	for _, table := range []string{"parts", "transactions", "sales", "sale_items"} {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

func AutoMigrate(db *gorm.DB) error {
	for _, m := range entity.Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func runSQLMigrations(driver, dir, dsn string) error {
	m, err := migrate.New("file://"+dir+"/"+driver, MigrationURL(driver, dsn))
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// MigrationURL converts a gorm DSN into the URL form golang-migrate expects.
func MigrationURL(driver, dsn string) string {
	switch driver {
	case DriverMySQL:
		if strings.HasPrefix(dsn, "mysql://") {
			return dsn
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return "mysql://" + dsn + sep + "multiStatements=true"
	default:
		return dsn
	}
}
