package migration_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"landivo/migration"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func tableMigration(version, table string) *migration.Migration {
	return &migration.Migration{
		Version:   version,
		Name:      "create_" + table,
		CreatedAt: time.Now(),
		Up: func(db *gorm.DB) error {
			return db.Exec("CREATE TABLE " + table + " (id INTEGER PRIMARY KEY)").Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec("DROP TABLE " + table).Error
		},
	}
}

func tableExists(t *testing.T, db *gorm.DB, name string) bool {
	var count int64
	err := db.Raw("SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count).Error
	require.NoError(t, err)
	return count == 1
}

func TestMigrator_Up(t *testing.T) {
	db := setupTestDB(t)
	migrator := migration.NewMigrator(db)
	migrator.Register(tableMigration("20240315000002", "second"))
	migrator.Register(tableMigration("20240315000001", "first"))

	applied, err := migrator.Up()
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, "20240315000001", applied[0].Version)

	var record migration.MigrationRecord
	require.NoError(t, db.Where("version = ?", "20240315000002").First(&record).Error)
	assert.Equal(t, "create_second", record.Name)
	assert.True(t, tableExists(t, db, "first"))
	assert.True(t, tableExists(t, db, "second"))

	// A second run has nothing to apply.
	applied, err = migrator.Up()
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestMigrator_UpStopsOnFailure(t *testing.T) {
	db := setupTestDB(t)
	migrator := migration.NewMigrator(db)
	migrator.Register(tableMigration("20240315000001", "first"))
	migrator.Register(&migration.Migration{
		Version: "20240315000002",
		Name:    "broken",
		Up:      func(*gorm.DB) error { return errors.New("boom") },
		Down:    func(*gorm.DB) error { return nil },
	})
	migrator.Register(tableMigration("20240315000003", "third"))

	applied, err := migrator.Up()
	require.Error(t, err)
	assert.Len(t, applied, 1)
	assert.False(t, tableExists(t, db, "third"))

	pending, err := migrator.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "broken", pending[0].Name)
}

func TestMigrator_Down(t *testing.T) {
	db := setupTestDB(t)
	migrator := migration.NewMigrator(db)
	migrator.Register(tableMigration("20240315000001", "test"))

	_, err := migrator.Up()
	require.NoError(t, err)

	reverted, err := migrator.Down()
	require.NoError(t, err)
	require.NotNil(t, reverted)
	assert.Equal(t, "create_test", reverted.Name)

	var record migration.MigrationRecord
	assert.Error(t, db.Where("version = ?", "20240315000001").First(&record).Error)
	assert.False(t, tableExists(t, db, "test"))

	reverted, err = migrator.Down()
	require.NoError(t, err)
	assert.Nil(t, reverted)
}

func TestMigrator_StatusAndHistory(t *testing.T) {
	db := setupTestDB(t)
	migrator := migration.NewMigrator(db)
	migrator.Register(tableMigration("20240315000001", "a"))
	_, err := migrator.Up()
	require.NoError(t, err)
	migrator.Register(tableMigration("20240315000002", "b"))

	statuses, err := migrator.Status()
	require.NoError(t, err)
	assert.Equal(t, []migration.Status{
		{Version: "20240315000001", Name: "create_a", Applied: true},
		{Version: "20240315000002", Name: "create_b", Applied: false},
	}, statuses)

	history, err := migrator.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "20240315000001", history[0].Version)
}

func TestRegistry(t *testing.T) {
	migration.ResetMigrations()
	t.Cleanup(migration.ResetMigrations)

	migration.RegisterMigration(tableMigration("2", "b"))
	migration.RegisterMigration(tableMigration("1", "a"))

	got := migration.GetRegisteredMigrations()
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].Version)
	assert.Equal(t, "2", got[1].Version)
}
