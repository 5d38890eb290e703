package database

import (
	"testing"

	"ratlist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenGorm_SQLiteMigrates(t *testing.T) {
	db, err := OpenGorm("sqlite", "file:database_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, MigrateGorm(db))

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Task{}))
	assert.True(t, db.Migrator().HasColumn(&models.Task{}, "task"))
}

func TestOpenGorm_UnknownDriver(t *testing.T) {
	_, err := OpenGorm("mysql", "dsn")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported gorm driver")
}
