// Package repository provides the sqlite-backed stores: the entity
// directory, the task history the stats engine reads, the achievement
// catalog, and the award ledger.
package repository

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/laurel/internal/domain/model"
)

// Open connects to the sqlite database at dsn and runs migrations for all
// domain models. The unique index on awards (user_id, achievement_code) is
// created here; it is what makes concurrent duplicate awards safe.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: sqlite %q: %w", ErrOpenDatabase, dsn, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for all domain models.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Team{},
		&model.Project{},
		&model.Task{},
		&model.Comment{},
		&model.Achievement{},
		&model.Award{},
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigrate, err)
	}
	return nil
}
