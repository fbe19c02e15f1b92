package services

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the generic entity accessor used by every controller.
// Preloads are applied to every read, including the reload after Create.
type Store[T any] struct {
	DB       *gorm.DB
	Preloads []string
	Order    string
}

// NewStore creates a Store for T
func NewStore[T any](db *gorm.DB, preloads ...string) *Store[T] {
	return &Store[T]{DB: db, Preloads: preloads, Order: "id ASC"}
}

func (s *Store[T]) query(ctx context.Context) *gorm.DB {
	q := s.DB.WithContext(ctx)
	for _, p := range s.Preloads {
		q = q.Preload(p)
	}
	return q
}

// FindAll returns every row
func (s *Store[T]) FindAll(ctx context.Context) ([]T, error) {
	var rows []T
	if err := s.query(ctx).Order(s.Order).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// FindByID returns one row or ErrNotFound
func (s *Store[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var row T
	if err := s.query(ctx).First(&row, id).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

// FindWhere returns the rows matching a condition, such as a relation scope
func (s *Store[T]) FindWhere(ctx context.Context, query interface{}, args ...interface{}) ([]T, error) {
	var rows []T
	if err := s.query(ctx).Where(query, args...).Order(s.Order).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// FindOne returns the first row matching a condition or ErrNotFound
func (s *Store[T]) FindOne(ctx context.Context, query interface{}, args ...interface{}) (*T, error) {
	var row T
	if err := s.query(ctx).Where(query, args...).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

// Create persists row and reloads it with relations
func (s *Store[T]) Create(ctx context.Context, row *T) error {
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return translate(err)
	}
	return s.reload(ctx, row)
}

// Update saves a row the caller has already merged with its changes
func (s *Store[T]) Update(ctx context.Context, row *T) error {
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Save(row).Error; err != nil {
		return translate(err)
	}
	return s.reload(ctx, row)
}

// Delete removes the row. Dependent rows are removed by the engine's cascade rules.
func (s *Store[T]) Delete(ctx context.Context, id uint) error {
	var row T
	result := s.DB.WithContext(ctx).Delete(&row, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether any row matches the condition
func (s *Store[T]) Exists(ctx context.Context, query interface{}, args ...interface{}) (bool, error) {
	var count int64
	var row T
	if err := s.DB.WithContext(ctx).Model(&row).Where(query, args...).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// reload reads the row back into a fresh value so relations reflect the new foreign keys
func (s *Store[T]) reload(ctx context.Context, row *T) error {
	if len(s.Preloads) == 0 {
		return nil
	}
	pk, err := s.primaryKey(ctx, row)
	if err != nil {
		return err
	}
	var fresh T
	if err := s.query(ctx).First(&fresh, pk).Error; err != nil {
		return translate(err)
	}
	*row = fresh
	return nil
}

func (s *Store[T]) primaryKey(ctx context.Context, row *T) (interface{}, error) {
	stmt := &gorm.Statement{DB: s.DB}
	if err := stmt.Parse(row); err != nil {
		return nil, err
	}
	field := stmt.Schema.PrioritizedPrimaryField
	if field == nil {
		return nil, fmt.Errorf("%s has no single primary key", stmt.Schema.Name)
	}
	value, _ := field.ValueOf(ctx, reflect.ValueOf(row).Elem())
	return value, nil
}
