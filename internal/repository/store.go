// Package repository persists domain rows through gorm.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no row has the requested primary key.
var ErrNotFound = gorm.ErrRecordNotFound

// Store does CRUD for one model type. Updates are full saves; the last
// write wins.
type Store[T any] struct {
	db  *gorm.DB
	key string // primary key column
}

func NewStore[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db, key: "id"}
}

// WithKey overrides the primary key column.
func (s *Store[T]) WithKey(column string) *Store[T] {
	return &Store[T]{db: s.db, key: column}
}

func (s *Store[T]) Find(ctx context.Context, id uint) (*T, error) {
	var row T
	if err := s.db.WithContext(ctx).Where(s.key+" = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Store[T]) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(new(T)).Where(s.key+" = ?", id).Count(&n).Error
	return n > 0, err
}

func (s *Store[T]) Create(ctx context.Context, row *T) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error
}

func (s *Store[T]) Update(ctx context.Context, row *T) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(row).Error
}

// Delete removes the row with primary key id; ErrNotFound if none did.
func (s *Store[T]) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Where(s.key+" = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(new(T)).Count(&n).Error
	return n, err
}

// SaveAll saves rows in one transaction.
func (s *Store[T]) SaveAll(ctx context.Context, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Omit(clause.Associations).Save(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Describe turns a persistence error into a message fit for the user.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNotFound) {
		return "record not found"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return fmt.Sprintf("the record is referenced by or references missing data (%s)", pgErr.ConstraintName)
		case "23505":
			return fmt.Sprintf("a record with the same key already exists (%s)", pgErr.ConstraintName)
		case "23502":
			return fmt.Sprintf("missing value for %s", pgErr.ColumnName)
		}
		return pgErr.Message
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return "the record is referenced by or references missing data"
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return "a record with the same key already exists"
	}
	return msg
}
