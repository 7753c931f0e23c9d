package database

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"case-analysis/logging"
	"case-analysis/models"
)

// Tables in child-before-parent order, for deletes.
var tables = []string{"posters", "result_fields", "results", "cases", "words", "fields"}

// Open connects to the sqlite database at path with foreign keys enforced and
// gorm errors translated (duplicate keys surface as gorm.ErrDuplicatedKey).
func Open(path string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger:         logging.GormLogger(logger),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connected successfully", zap.String("path", path))
	return db, nil
}

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Case{},
		&models.Field{},
		&models.Word{},
		&models.AnalysisResult{},
		&models.ResultField{},
		&models.Poster{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ClearAll deletes every row from every table and resets the id counters.
func ClearAll(db *gorm.DB) (map[string]int64, error) {
	deleted := make(map[string]int64, len(tables))
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			res := tx.Exec("DELETE FROM " + table)
			if res.Error != nil {
				return fmt.Errorf("clear %s: %w", table, res.Error)
			}
			deleted[table] = res.RowsAffected
		}
		if tx.Migrator().HasTable("sqlite_sequence") {
			if err := tx.Exec("DELETE FROM sqlite_sequence WHERE name IN ?", tables).Error; err != nil {
				return fmt.Errorf("reset sequences: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}
