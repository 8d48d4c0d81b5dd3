package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"booklibrary/internal/entities"
)

// Database wraps the gorm connection shared by all repositories.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the SQLite database, enables foreign-key
// enforcement and migrates the schema. Uniqueness invariants (slugs,
// the (user, book) pair) are enforced by unique indexes created here,
// so concurrent conflicting writes resolve at the store, not in
// application-level check-then-act.
func NewDatabase(dbPath string) (*Database, error) {
	dsn := dbPath
	if strings.Contains(dsn, "?") {
		dsn += "&_fk=1"
	} else {
		dsn += "?_fk=1"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Country{},
		&entities.Author{},
		&entities.Genre{},
		&entities.Book{},
		&entities.UserBookInstance{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
