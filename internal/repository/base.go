// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"autonation/internal/models"
	"autonation/internal/observability"

	"gorm.io/gorm"
)

// Option configures a repository.
type Option func(*base)

// WithReadReplica routes read-only queries to replica when it is non-nil.
func WithReadReplica(replica *gorm.DB) Option {
	return func(b *base) {
		b.replica = replica
	}
}

type base struct {
	db      *gorm.DB
	replica *gorm.DB
	metrics *observability.DatabaseMetrics
}

func newBase(db *gorm.DB, opts []Option) base {
	b := base{db: db, metrics: observability.NewDatabaseMetrics()}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// readDB returns the replica if configured, otherwise the primary.
func (b base) readDB() *gorm.DB {
	if b.replica != nil {
		return b.replica
	}
	return b.db
}

// notFoundOr converts gorm.ErrRecordNotFound into a NotFound AppError and
// every other error into an InternalError.
func notFoundOr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewInternalError(err)
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// isKeywordConflict reports a violation of the (automation_id, word) index.
// Postgres names the index; SQLite names the columns.
func isKeywordConflict(err error) bool {
	if !isUniqueConstraintError(err) {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "idx_keywords_automation_word") ||
		strings.Contains(msg, "keywords.word")
}
