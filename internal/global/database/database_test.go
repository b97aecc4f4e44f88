package database

import (
	"testing"

	"activity-marketplace/config"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMysqlDSNFromFields(t *testing.T) {
	dsn, err := mysqlDSN(config.Database{
		Host: "db", Port: "3306", Username: "app", Password: "secret", DBName: "market",
	})
	require.NoError(t, err)

	cfg, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ClientFoundRows)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "app", cfg.User)
	assert.Equal(t, "market", cfg.DBName)
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestMysqlDSNKeepsExplicitDSN(t *testing.T) {
	dsn, err := mysqlDSN(config.Database{DSN: "root:pw@tcp(127.0.0.1:3307)/other?parseTime=true"})
	require.NoError(t, err)

	cfg, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ClientFoundRows)
	assert.Equal(t, "127.0.0.1:3307", cfg.Addr)
	assert.Equal(t, "other", cfg.DBName)

	_, err = mysqlDSN(config.Database{DSN: "not a dsn"})
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(&mysqldriver.MySQLError{Number: 1062}))
	assert.False(t, IsUniqueViolation(&mysqldriver.MySQLError{Number: 1048}))
}
