package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// mediaColumns is the expected column set of the media table. Validate
// compares an existing catalog against it, order-insensitive.
var mediaColumns = []string{
	"id",
	"original_path",
	"camera",
	"captured_at",
	"file_type",
	"size_bytes",
	"width",
	"height",
	"resolution_unit",
	"resolution_x",
	"resolution_y",
	"longitude",
	"latitude",
	"country",
	"region",
	"city",
	"perceptual_hash",
	"crypto_hash",
	"new_path",
	"duplicate_rank",
}

// Store is the catalog persistence layer. All mutating calls go through one
// logical writer: the check-then-act sequence in Insert is not safe under
// concurrent writers.
type Store struct {
	db  *gorm.DB
	log *slog.Logger
	mu  sync.Mutex
}

// OpenStore opens the sqlite catalog at path. A missing file is created
// with the expected schema; an existing file is validated against it and
// refused on mismatch, never migrated.
func OpenStore(path string, log *slog.Logger) (*Store, error) {
	_, statErr := os.Stat(path)
	exists := statErr == nil

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}

	store := &Store{db: db, log: log}

	if !exists {
		if err := db.AutoMigrate(&MediaRecord{}); err != nil {
			return nil, fmt.Errorf("failed to create catalog schema: %w", err)
		}
		log.Info("catalog created", "path", path)
		return store, nil
	}

	if err := store.Validate(); err != nil {
		log.Error("catalog validation failed", "path", path, "error", err)
		return nil, err
	}

	return store, nil
}

// Validate checks that the catalog contains exactly the expected table with
// the expected column-name set. Column order is irrelevant; any mismatch
// yields ErrInvalidCatalog.
func (s *Store) Validate() error {
	migrator := s.db.Migrator()

	tables, err := migrator.GetTables()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	var userTables []string
	for _, t := range tables {
		if t == "sqlite_sequence" {
			continue
		}
		userTables = append(userTables, t)
	}

	if len(userTables) != 1 || userTables[0] != (MediaRecord{}).TableName() {
		return fmt.Errorf("%w: unexpected tables %v", ErrInvalidCatalog, userTables)
	}

	columns, err := migrator.ColumnTypes(&MediaRecord{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	found := make(map[string]bool, len(columns))
	for _, col := range columns {
		found[col.Name()] = true
	}

	if len(found) != len(mediaColumns) {
		return fmt.Errorf("%w: media table has %d columns, want %d", ErrInvalidCatalog, len(found), len(mediaColumns))
	}
	for _, name := range mediaColumns {
		if !found[name] {
			return fmt.Errorf("%w: media table missing column %s", ErrInvalidCatalog, name)
		}
	}

	return nil
}

// Insert adds a record to the catalog. If a record with the same crypto
// hash already exists it returns ErrDuplicate and writes nothing.
// Otherwise the record's duplicate rank is set to the count of existing
// records sharing its perceptual hash, and the rank is returned.
func (s *Store) Insert(rec *MediaRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&MediaRecord{}).
			Where("crypto_hash = ?", rec.CryptoHash).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicate
		}

		var sameHash int64
		if err := tx.Model(&MediaRecord{}).
			Where("perceptual_hash = ?", rec.PerceptualHash).
			Count(&sameHash).Error; err != nil {
			return err
		}
		rec.DuplicateRank = int(sameHash)

		return tx.Create(rec).Error
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("record added", "path", rec.OriginalPath, "crypto_hash", rec.CryptoHash, "rank", rec.DuplicateRank)
	return rec.DuplicateRank, nil
}

// UpdateNewPath records the repository destination of the file matching
// cryptoHash. Missing hashes are a no-op: the caller is expected to have
// just inserted the record.
func (s *Store) UpdateNewPath(cryptoHash, newPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Model(&MediaRecord{}).
		Where("crypto_hash = ?", cryptoHash).
		Update("new_path", newPath).Error
}

// GetAll returns every record in the catalog, order not guaranteed.
func (s *Store) GetAll() ([]MediaRecord, error) {
	var records []MediaRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// SearchByDate returns records captured between start and end. A zero end
// defaults to now.
func (s *Store) SearchByDate(start, end time.Time) ([]MediaRecord, error) {
	if end.IsZero() {
		end = time.Now()
	}

	var records []MediaRecord
	err := s.db.
		Where("captured_at BETWEEN ? AND ?", start, end).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SearchByLocation returns records resolved to the given country.
func (s *Store) SearchByLocation(country string) ([]MediaRecord, error) {
	var records []MediaRecord
	if err := s.db.Where("country = ?", country).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// SearchByPerceptualHash returns the record with the given perceptual hash,
// or nil when there is none. The hash is near-unique in practice but not
// enforced unique, so the first match wins.
func (s *Store) SearchByPerceptualHash(hash string) (*MediaRecord, error) {
	var rec MediaRecord
	err := s.db.Where("perceptual_hash = ?", hash).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
