package db

import (
	"testing"

	"github.com/smj9504/mj-estimate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDialect_SQLiteTakesWriteLockAtBegin(t *testing.T) {
	d, err := Dialect(config.Config{DBType: "sqlite"})
	require.NoError(t, err)

	sq, ok := d.(*sqlite.Dialector)
	require.True(t, ok, "expected a sqlite dialector, got %T", d)
	assert.Contains(t, sq.DSN, "_txlock=immediate")
}

func TestDialect_Postgres(t *testing.T) {
	d, err := Dialect(config.Config{
		DBType:     "postgres",
		DBHost:     "localhost",
		DBUser:     "mjestimate",
		DBPassword: "secret",
		DBName:     "mjestimate",
		DBPort:     "5432",
		DBSSLMode:  "disable",
	})
	require.NoError(t, err)

	pg, ok := d.(*postgres.Dialector)
	require.True(t, ok, "expected a postgres dialector, got %T", d)
	assert.Contains(t, pg.DSN, "dbname=mjestimate")
}

func TestDialect_MySQL(t *testing.T) {
	d, err := Dialect(config.Config{
		DBType:     "mysql",
		DBHost:     "localhost",
		DBUser:     "mjestimate",
		DBPassword: "secret",
		DBName:     "mjestimate",
		DBPort:     "3306",
	})
	require.NoError(t, err)

	my, ok := d.(*mysql.Dialector)
	require.True(t, ok, "expected a mysql dialector, got %T", d)
	assert.Contains(t, my.DSN, "/mjestimate?")
}

func TestDialect_Unsupported(t *testing.T) {
	_, err := Dialect(config.Config{DBType: "oracle"})
	assert.Error(t, err)
}

func TestSupportsRowLocking(t *testing.T) {
	withDialector := func(d gorm.Dialector) *gorm.DB {
		return &gorm.DB{Config: &gorm.Config{Dialector: d}}
	}

	assert.False(t, SupportsRowLocking(withDialector(sqlite.Open("gorm.db?_txlock=immediate"))))
	assert.True(t, SupportsRowLocking(withDialector(postgres.New(postgres.Config{}))))
	assert.True(t, SupportsRowLocking(withDialector(mysql.New(mysql.Config{}))))
}
