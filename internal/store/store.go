package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"xconsultation/internal/metrics"
)

// ErrNotFound is returned when a partial update matches no record
var ErrNotFound = errors.New("record not found")

// Record is anything the store can persist under a stable identifier
type Record interface {
	RecordID() string
}

// Query selects records from a single collection.
// An empty Field means no filter; a Limit of zero means no limit.
type Query struct {
	Collection string
	Field      string
	Value      any
	OrderBy    string
	Descending bool
	Limit      int
}

// RecordStore defines the persistence operations the services depend on
type RecordStore interface {
	// Create writes record and returns its identifier
	Create(ctx context.Context, collection string, record Record) (string, error)
	// Query loads matching records into dest, which must be a pointer to a slice
	Query(ctx context.Context, q Query, dest any) error
	// UpdatePartial sets only the given columns on the record with the given id
	UpdatePartial(ctx context.Context, collection, id string, fields map[string]any) error
}

// GormStore implements RecordStore using GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an opened and migrated database
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create implements RecordStore
func (s *GormStore) Create(ctx context.Context, collection string, record Record) (string, error) {
	start := time.Now()
	err := s.db.WithContext(ctx).Table(collection).Create(record).Error
	metrics.RecordDBQuery("create_"+collection, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}
	return record.RecordID(), nil
}

// Query implements RecordStore
func (s *GormStore) Query(ctx context.Context, q Query, dest any) error {
	start := time.Now()
	tx := s.db.WithContext(ctx).Table(q.Collection)
	if q.Field != "" {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: q.Field}, Value: q.Value})
	}
	if q.OrderBy != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: q.Descending})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	err := tx.Find(dest).Error
	metrics.RecordDBQuery("query_"+q.Collection, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("query %s: %w", q.Collection, err)
	}
	return nil
}

// UpdatePartial implements RecordStore
func (s *GormStore) UpdatePartial(ctx context.Context, collection, id string, fields map[string]any) error {
	start := time.Now()
	res := s.db.WithContext(ctx).Table(collection).Where("id = ?", id).Updates(fields)
	metrics.RecordDBQuery("update_"+collection, time.Since(start), res.Error)
	if res.Error != nil {
		return fmt.Errorf("update %s %s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update %s %s: %w", collection, id, ErrNotFound)
	}
	return nil
}
