package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DBDriver returns DB_DRIVER (mysql by default).
func DBDriver() string {
	return GetEnv("DB_DRIVER", DriverMySQL)
}

// DBDSN returns DB_DSN, or MYSQL_DSN, or a MySQL DSN assembled from MYSQL_* parts.
func DBDSN() string {
	if dsn := GetEnv("DB_DSN", os.Getenv("MYSQL_DSN")); dsn != "" {
		return dsn
	}
	switch DBDriver() {
	case DriverSQLite:
		return "repairshop.db"
	case DriverPostgres:
		return ""
	}
	user := os.Getenv("MYSQL_USER")
	pass := os.Getenv("MYSQL_PASS")
	host := GetEnv("MYSQL_HOST", "127.0.0.1")
	port := GetEnv("MYSQL_PORT", "3306")
	db := os.Getenv("MYSQL_DB")
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=Local", user, pass, host, port, db)
}

func NewDB() (*gorm.DB, error) {
	return OpenDB(DBDriver(), DBDSN())
}

// OpenDB opens a gorm connection for the given driver name.
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("DB_DSN is required for postgres")
		}
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(SQLiteDSN(dsn))
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	logMode := logger.Warn
	switch GetEnv("GORM_LOG", "") {
	case "off":
		logMode = logger.Silent
	case "info":
		logMode = logger.Info
	}

	gormLogger := logger.New(
		GetLogger(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logMode,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	if sqlDB, err := db.DB(); err == nil && driver != DriverSQLite {
		sqlDB.SetMaxOpenConns(GetEnvInt("DB_MAX_OPEN_CONNS", 20))
		sqlDB.SetMaxIdleConns(GetEnvInt("DB_MAX_IDLE_CONNS", 5))
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if GetEnvBool("DB_TRACING", false) {
		if pluginErr := db.Use(otelgorm.NewPlugin()); pluginErr != nil {
			GetLogger().Warnf("db connected but failed to install otelgorm plugin: %v", pluginErr)
		}
	}
	return db, nil
}

// SQLiteDSN adds the per-connection pragmas every pooled sqlite connection
// needs. Transactions take the write lock up front so concurrent writers
// queue on busy_timeout instead of failing mid-transaction.
func SQLiteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}

// CloseDB closes the pool behind db.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
