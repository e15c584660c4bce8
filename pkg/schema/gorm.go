package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models in hierarchy order.
func AllModels() []any {
	return []any{
		&Province{},
		&Regency{},
		&District{},
		&Village{},
	}
}

// Generators returns DDL generators of all models in hierarchy order.
func Generators() []DDLGenerator {
	return []DDLGenerator{
		Province{},
		Regency{},
		District{},
		Village{},
	}
}

// DDL returns all CREATE TABLE and CREATE INDEX statements in the order
// they have to be executed.
func DDL() []string {
	var res []string
	for _, g := range Generators() {
		res = append(res, g.TableDDL())
		res = append(res, g.IndexDDL()...)
	}
	return res
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
