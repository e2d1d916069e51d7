package service

import (
	"context"
	"database/sql"
	"errors"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/query"
	"github.com/noah-isme/academic-records-api/internal/rbac"
	"github.com/noah-isme/academic-records-api/internal/resource"
	"github.com/noah-isme/academic-records-api/internal/store"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

// CRUD serves the five uniform operations for one resource descriptor. Every
// invocation is a single attempt: parsing and authorization run before any
// store mutation, store failures are translated into the API error taxonomy,
// and nothing retries.
type CRUD struct {
	desc   *resource.Descriptor
	coll   store.Collection
	exec   *query.Executor
	policy *rbac.Policy
	logger *zap.Logger
}

// NewCRUD constructs the service for one resource.
func NewCRUD(desc *resource.Descriptor, coll store.Collection, exec *query.Executor, policy *rbac.Policy, logger *zap.Logger) *CRUD {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CRUD{desc: desc, coll: coll, exec: exec, policy: policy, logger: logger}
}

// Descriptor exposes the resource metadata the HTTP layer needs.
func (s *CRUD) Descriptor() *resource.Descriptor { return s.desc }

// List parses the raw query parameters, executes them and masks every
// returned record for the actor's role.
func (s *CRUD) List(ctx context.Context, raw url.Values, actor models.Actor) ([]models.Record, *models.Pagination, error) {
	spec, err := query.Parse(raw, s.desc)
	if err != nil {
		return nil, nil, err
	}

	records, total, err := s.exec.Execute(ctx, spec, s.desc)
	if err != nil {
		return nil, nil, s.translate(err, "failed to list "+s.desc.Name)
	}

	masked := make([]models.Record, len(records))
	for i, rec := range records {
		masked[i] = s.maskRead(rec, actor)
	}
	return masked, models.NewPagination(total, spec.Page, spec.Limit), nil
}

// Get fetches one record by id with relation expansion and read masking.
func (s *CRUD) Get(ctx context.Context, id string, actor models.Actor) (models.Record, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	rec, err := s.coll.FindByID(ctx, id, nil)
	if err != nil {
		return nil, s.translate(err, "failed to load "+s.desc.Name)
	}
	if err := s.exec.ExpandRelations(ctx, s.desc, rec); err != nil {
		return nil, s.translate(err, "failed to expand "+s.desc.Name)
	}
	return s.maskRead(rec, actor), nil
}

// Create write-filters the body for the actor's role, validates it against
// the descriptor and persists it. The response echoes the persisted record
// after read masking, never the raw input.
func (s *CRUD) Create(ctx context.Context, body models.Record, actor models.Actor) (models.Record, error) {
	perm, ok := s.policy.Lookup(actor.Role, s.desc.Name, rbac.ActionWrite)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not permitted to create "+s.desc.Name)
	}

	filtered := rbac.FilterByAllowed(body, perm.AllowedFields)
	if perm.OwnOnly && s.desc.OwnerField != "" && s.desc.OwnerField != "id" {
		// Scoped creators may only produce records they own.
		filtered[s.desc.OwnerField] = actor.ID
	}

	if messages := s.desc.ValidateWrite(filtered, false); len(messages) > 0 {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, "invalid "+s.desc.Name+" payload", messages)
	}
	if err := s.prepareWrite(filtered); err != nil {
		return nil, s.translate(err, "failed to prepare "+s.desc.Name)
	}

	created, err := s.coll.Insert(ctx, filtered)
	if err != nil {
		return nil, s.translate(err, "failed to create "+s.desc.Name)
	}
	if err := s.exec.ExpandRelations(ctx, s.desc, created); err != nil {
		return nil, s.translate(err, "failed to expand "+s.desc.Name)
	}
	return s.maskRead(created, actor), nil
}

// Update enforces ownership before touching any field, then persists the
// write-filtered changes with run-validators and return-updated semantics.
func (s *CRUD) Update(ctx context.Context, id string, body models.Record, actor models.Actor) (models.Record, error) {
	_, perm, err := s.authorizeWrite(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	// Ownership already settled; the permission's allow-list applies as-is.
	filtered := rbac.FilterByAllowed(body, perm.AllowedFields)

	if messages := s.desc.ValidateWrite(filtered, true); len(messages) > 0 {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, "invalid "+s.desc.Name+" payload", messages)
	}
	if err := s.prepareWrite(filtered); err != nil {
		return nil, s.translate(err, "failed to prepare "+s.desc.Name)
	}

	updated, err := s.coll.Update(ctx, id, filtered)
	if err != nil {
		return nil, s.translate(err, "failed to update "+s.desc.Name)
	}
	if err := s.exec.ExpandRelations(ctx, s.desc, updated); err != nil {
		return nil, s.translate(err, "failed to expand "+s.desc.Name)
	}
	return s.maskRead(updated, actor), nil
}

// Delete enforces the same ownership rule as Update and removes the record.
func (s *CRUD) Delete(ctx context.Context, id string, actor models.Actor) error {
	if _, _, err := s.authorizeWrite(ctx, id, actor); err != nil {
		return err
	}
	if err := s.coll.Delete(ctx, id); err != nil {
		return s.translate(err, "failed to delete "+s.desc.Name)
	}
	return nil
}

// authorizeWrite is the single authorization decision point for mutations:
// identifier shape, record existence and ownership are all settled here,
// before any field filtering happens.
func (s *CRUD) authorizeWrite(ctx context.Context, id string, actor models.Actor) (models.Record, rbac.Permission, error) {
	if err := validID(id); err != nil {
		return nil, rbac.Permission{}, err
	}
	current, err := s.coll.FindByID(ctx, id, nil)
	if err != nil {
		return nil, rbac.Permission{}, s.translate(err, "failed to load "+s.desc.Name)
	}
	perm, ok := s.policy.Lookup(actor.Role, s.desc.Name, rbac.ActionWrite)
	if !ok {
		return nil, rbac.Permission{}, appErrors.Clone(appErrors.ErrForbidden, "not permitted to modify "+s.desc.Name)
	}
	if perm.OwnOnly && !s.isOwner(current, actor) {
		return nil, rbac.Permission{}, appErrors.Clone(appErrors.ErrForbidden, s.desc.Name+" is not owned by the requester")
	}
	return current, perm, nil
}

func (s *CRUD) prepareWrite(rec models.Record) error {
	if s.desc.PrepareWrite == nil {
		return nil
	}
	return s.desc.PrepareWrite(rec)
}

func (s *CRUD) isOwner(rec models.Record, actor models.Actor) bool {
	if s.desc.OwnerField == "" {
		return false
	}
	owner, _ := rec[s.desc.OwnerField].(string)
	return owner != "" && owner == actor.ID
}

func (s *CRUD) maskRead(rec models.Record, actor models.Actor) models.Record {
	own := s.isOwner(rec, actor)
	allowed := s.policy.AllowedFields(actor.Role, s.desc.Name, rbac.ActionRead, own)
	return rbac.FilterByAllowed(rec, allowed)
}

// translate maps store-level failures into the API error taxonomy; raw store
// errors never cross the service boundary.
func (s *CRUD) translate(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return appErrors.Clone(appErrors.ErrCancelled, s.desc.Name+" request cancelled")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, s.desc.Name+" not found")
	}
	if field, ok := store.DuplicateField(err, s.desc.Collection); ok {
		return appErrors.WithDetails(appErrors.ErrDuplicate, field+" already in use", field)
	}
	s.logger.Error("store operation failed", zap.String("resource", s.desc.Name), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.Clone(appErrors.ErrBadRequest, "malformed identifier")
	}
	return nil
}
