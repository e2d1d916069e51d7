package store

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/query"
)

// Collection exposes the per-resource persistence operations the CRUD layer
// relies on. Read operations accept a query.Spec; the implementation is
// responsible for never letting untrusted text reach the database unescaped.
type Collection interface {
	query.Collection
	Insert(ctx context.Context, rec models.Record) (models.Record, error)
	Update(ctx context.Context, id string, changes models.Record) (models.Record, error)
	Delete(ctx context.Context, id string) error
}

// Store resolves collections by resource name.
type Store interface {
	Collection(name string) (Collection, bool)
}

const uniqueViolation = "23505"

// DuplicateField inspects a store error for a uniqueness violation and, when
// found, derives the offending column from the constraint name
// (<table>_<column>_key convention).
func DuplicateField(err error, table string) (string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != uniqueViolation {
		return "", false
	}
	field := strings.TrimSuffix(pqErr.Constraint, "_key")
	field = strings.TrimPrefix(field, table+"_")
	if field == "" {
		field = pqErr.Constraint
	}
	return field, true
}
