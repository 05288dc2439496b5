package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitDBDefaultsToSqlite(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))

	db, err := InitDB()
	assert.NoError(t, err)
	assert.Equal(t, "sqlite", db.Dialector.Name())
}
