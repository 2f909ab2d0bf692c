package db

import (
	"fmt"

	"github.com/smj9504/mj-estimate/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)), nil
	case "postgres":
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBPort,
			cfg.DBSSLMode,
		)), nil
	case "sqlite":
		// _txlock=immediate makes write transactions take the write lock at
		// BEGIN, so concurrent revisions serialize instead of failing on a
		// deferred lock upgrade. FindLatestForUpdate skips SELECT ... FOR
		// UPDATE on this dialect and relies on this.
		return sqlite.Open("gorm.db?_txlock=immediate"), nil
	default:
		return nil, fmt.Errorf("unsupported %s type", cfg.DBType)
	}
}

// SupportsRowLocking reports whether the connected dialect understands
// SELECT ... FOR UPDATE. SQLite serializes writers at the database level
// instead.
func SupportsRowLocking(conn *gorm.DB) bool {
	return conn.Dialector.Name() != "sqlite"
}
