//go:build sqlite

package main

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newDialector(dsn string) gorm.Dialector {
	return sqlite.Open(dsn)
}

// configureDB switches on sqlite's foreign key enforcement; the cascade
// constraints in the schema depend on it.
func configureDB(db *gorm.DB) error {
	return db.Exec("PRAGMA foreign_keys = ON").Error
}
