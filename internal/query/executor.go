package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/resource"
)

// ErrUnsafePredicate is returned by a Collection when a filter clause cannot
// be compiled into a trustworthy predicate (unknown field, incompatible
// operator, unconvertible value). The executor degrades it to an empty result
// set instead of failing the request.
var ErrUnsafePredicate = errors.New("query: unsafe predicate")

// Collection is the slice of the store the executor reads from.
type Collection interface {
	Find(ctx context.Context, spec *Spec) ([]models.Record, error)
	Count(ctx context.Context, spec *Spec) (int, error)
	FindByID(ctx context.Context, id string, fields []string) (models.Record, error)
}

// Source resolves collections by resource name, for the primary query and for
// relation expansion.
type Source interface {
	Collection(name string) (Collection, bool)
}

// SourceFunc adapts a lookup function to the Source interface.
type SourceFunc func(name string) (Collection, bool)

// Collection implements Source.
func (f SourceFunc) Collection(name string) (Collection, bool) { return f(name) }

// Executor applies a Spec to a resource's collection and expands its
// configured relations.
type Executor struct {
	source Source
}

// NewExecutor constructs an Executor over the given source.
func NewExecutor(source Source) *Executor {
	return &Executor{source: source}
}

// Execute runs the spec against the descriptor's collection, returning the
// current page of records and the total match count computed before
// pagination.
func (e *Executor) Execute(ctx context.Context, spec *Spec, desc *resource.Descriptor) ([]models.Record, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	coll, ok := e.source.Collection(desc.Name)
	if !ok {
		return nil, 0, fmt.Errorf("query: no collection for resource %q", desc.Name)
	}

	records, err := coll.Find(ctx, spec)
	if err != nil {
		if errors.Is(err, ErrUnsafePredicate) {
			return []models.Record{}, 0, nil
		}
		return nil, 0, err
	}

	total, err := coll.Count(ctx, spec)
	if err != nil {
		if errors.Is(err, ErrUnsafePredicate) {
			return []models.Record{}, 0, nil
		}
		return nil, 0, err
	}

	if err := e.ExpandRelations(ctx, desc, records...); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ExpandRelations replaces each configured foreign-key value with the
// projected fields of the referenced record. Dangling references degrade to
// nil rather than failing the request.
func (e *Executor) ExpandRelations(ctx context.Context, desc *resource.Descriptor, records ...models.Record) error {
	for _, rel := range desc.Relations {
		target, ok := e.source.Collection(rel.TargetResource)
		if !ok {
			continue
		}
		for _, rec := range records {
			raw, present := rec[rel.LocalField]
			if !present || raw == nil {
				continue
			}
			id, ok := raw.(string)
			if !ok || id == "" {
				rec[rel.LocalField] = nil
				continue
			}
			related, err := target.FindByID(ctx, id, rel.ProjectedFields)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					rec[rel.LocalField] = nil
					continue
				}
				return fmt.Errorf("expand %s.%s: %w", desc.Name, rel.LocalField, err)
			}
			rec[rel.LocalField] = related
		}
	}
	return nil
}
