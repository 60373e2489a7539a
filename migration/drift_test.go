package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landivo/migration"
)

type widget struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"not null"`
	Color string `gorm:"index"`
}

type gadget struct {
	ID uint `gorm:"primaryKey"`
}

func TestCompare(t *testing.T) {
	db := setupTestDB(t)

	t.Run("missing table", func(t *testing.T) {
		drift, err := migration.Compare(db, &widget{})
		require.NoError(t, err)
		require.Len(t, drift, 1)
		assert.Equal(t, "widgets", drift[0].Table)
		assert.True(t, drift[0].Missing)
	})

	t.Run("missing column and index", func(t *testing.T) {
		require.NoError(t, db.Exec("CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT NOT NULL)").Error)
		drift, err := migration.Compare(db, &widget{})
		require.NoError(t, err)
		require.Len(t, drift, 1)
		assert.False(t, drift[0].Missing)
		assert.Equal(t, []string{"color"}, drift[0].MissingColumns)
		assert.Equal(t, []string{"idx_widgets_color"}, drift[0].MissingIndexes)
	})

	t.Run("in sync", func(t *testing.T) {
		require.NoError(t, db.AutoMigrate(&widget{}, &gadget{}))
		drift, err := migration.Compare(db, &widget{}, &gadget{})
		require.NoError(t, err)
		assert.Empty(t, drift)
	})
}
