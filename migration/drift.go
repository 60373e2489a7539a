package migration

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// TableDrift lists what a model declares that the database lacks.
type TableDrift struct {
	Table          string
	Missing        bool
	MissingColumns []string
	MissingIndexes []string
}

// IsEmpty reports whether the table matches its model.
func (d *TableDrift) IsEmpty() bool {
	return !d.Missing && len(d.MissingColumns) == 0 && len(d.MissingIndexes) == 0
}

// Compare parses each model with the database's naming strategy and reports
// the tables, columns and indexes missing from the database. Models that
// match are left out of the result.
func Compare(db *gorm.DB, models ...interface{}) ([]TableDrift, error) {
	cache := &sync.Map{}
	m := db.Migrator()

	var out []TableDrift
	for _, model := range models {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}

		d := TableDrift{Table: s.Table}
		if !m.HasTable(s.Table) {
			d.Missing = true
			out = append(out, d)
			continue
		}
		for _, f := range s.Fields {
			if f.DBName == "" {
				continue
			}
			if !m.HasColumn(model, f.DBName) {
				d.MissingColumns = append(d.MissingColumns, f.DBName)
			}
		}
		for _, idx := range s.ParseIndexes() {
			if !m.HasIndex(model, idx.Name) {
				d.MissingIndexes = append(d.MissingIndexes, idx.Name)
			}
		}
		if !d.IsEmpty() {
			out = append(out, d)
		}
	}
	return out, nil
}
