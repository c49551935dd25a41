package database_test

import (
	"testing"

	"fornecedores/internal/database"
	"fornecedores/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	db, err := database.Open("oracle", "whatever")
	assert.Nil(t, db)
	assert.ErrorContains(t, err, `unsupported database driver "oracle"`)
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	db, err := database.Open("sqlite", "file:migrate_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	for _, model := range []interface{}{&models.Fornecedor{}, &models.User{}, &models.UserClaim{}, &models.UserRole{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasTable("fornecedores"))
}

func TestMySQLDSN_EnablesClientFoundRows(t *testing.T) {
	dsn, err := database.MySQLDSN("app:secret@tcp(localhost:3306)/fornecedores?parseTime=true")
	require.NoError(t, err)
	assert.Contains(t, dsn, "clientFoundRows=true")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "tcp(localhost:3306)/fornecedores")

	_, err = database.MySQLDSN("not a dsn")
	assert.ErrorContains(t, err, "parse mysql dsn")

	db, err := database.Open("mysql", "not a dsn")
	assert.Nil(t, db)
	assert.Error(t, err)
}
