package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landivo/internal/model"
	"landivo/migration"
)

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(DriverPostgres, "", false)
	assert.Error(t, err)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "root@/db", false)
	assert.Error(t, err)
}

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=1", withForeignKeys(":memory:"))
	assert.Equal(t, "file:x.db?cache=shared&_foreign_keys=1", withForeignKeys("file:x.db?cache=shared"))
	assert.Equal(t, "file:x.db?_fk=1", withForeignKeys("file:x.db?_fk=1"))
}

func TestOpenMemoryMigrates(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)

	for _, entity := range model.All() {
		assert.True(t, db.Migrator().HasTable(entity), "%T", entity)
	}

	statuses, err := migration.NewMigrator(db).Status()
	require.NoError(t, err)
	require.Len(t, statuses, len(schema))
	for _, s := range statuses {
		assert.True(t, s.Applied, s.Name)
	}
}

func TestSchemaDown(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)

	m := migration.NewMigrator(db)
	for range schema {
		_, err := m.Down()
		require.NoError(t, err)
	}
	for _, entity := range model.All() {
		assert.False(t, db.Migrator().HasTable(entity), "%T", entity)
	}
}
