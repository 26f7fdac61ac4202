package repository

import (
	"fmt"

	"parley-chat/internal/domain/group"
	"parley-chat/internal/domain/user"

	"gorm.io/gorm"
)

// InitSchema handles the database schema migration.
// It creates Postgres extensions where applicable and runs Gorm
// auto-migration for all tables.
func InitSchema(db *gorm.DB) error {
	// Extensions only exist on Postgres; the sqlite test databases skip them.
	if db.Dialector.Name() == "postgres" {
		extensions := []string{
			`CREATE EXTENSION IF NOT EXISTS "citext";`,
		}
		for _, ext := range extensions {
			if err := db.Exec(ext).Error; err != nil {
				return fmt.Errorf("failed to create extension: %w", err)
			}
		}
	}

	if err := db.AutoMigrate(
		&user.Realm{},
		&user.User{},
		&group.UserGroup{},
		&group.Membership{},
	); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}

	return nil
}
