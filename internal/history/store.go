// Package history persists a local record of finished runs to a
// sqlite database. The pipeline works fine without it; the store is
// only opened when a database path is configured.
package history

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/publicart/massimport/internal/entities"
)

type Store struct {
	db *gorm.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.AutoMigrate(&entities.ImportRun{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) RecordRun(run *entities.ImportRun) error {
	return s.db.Create(run).Error
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]entities.ImportRun, error) {
	var runs []entities.ImportRun
	query := s.db.Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&runs).Error
	return runs, err
}

// RunsForImporter filters the history by importer name, newest first.
func (s *Store) RunsForImporter(importer string, limit int) ([]entities.ImportRun, error) {
	var runs []entities.ImportRun
	query := s.db.Where("importer = ?", importer).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&runs).Error
	return runs, err
}
