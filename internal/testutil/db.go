// Package testutil opens a migrated in-memory database for package tests.
package testutil

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"backoffice/internal/infra"
)

// NewDB returns an isolated sqlite database with every table migrated.
// The pool is pinned to one connection so all queries see the same memory db.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	logger := zerolog.Nop()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), infra.GormConfig(&logger, "silent"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, infra.Migrate(db))
	return db
}
