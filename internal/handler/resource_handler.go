package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academic-records-api/internal/middleware"
	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/resource"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
	"github.com/noah-isme/academic-records-api/pkg/response"
)

type crudService interface {
	List(ctx context.Context, raw url.Values, actor models.Actor) ([]models.Record, *models.Pagination, error)
	Get(ctx context.Context, id string, actor models.Actor) (models.Record, error)
	Create(ctx context.Context, body models.Record, actor models.Actor) (models.Record, error)
	Update(ctx context.Context, id string, body models.Record, actor models.Actor) (models.Record, error)
	Delete(ctx context.Context, id string, actor models.Actor) error
}

// ResourceHandler exposes the five uniform endpoints for one resource. One
// instance is synthesized per registered descriptor.
type ResourceHandler struct {
	label string
	path  string
	svc   crudService
}

// NewResourceHandler constructs the handler for a descriptor.
func NewResourceHandler(desc *resource.Descriptor, svc crudService) *ResourceHandler {
	return &ResourceHandler{
		label: resourceLabel(desc.Name),
		path:  "/" + strings.ReplaceAll(desc.Collection, "_", "-"),
		svc:   svc,
	}
}

// Mount registers the CRUD routes on the given router group.
func (h *ResourceHandler) Mount(rg *gin.RouterGroup) {
	routes := rg.Group(h.path)
	routes.GET("", h.List)
	routes.POST("", h.Create)
	routes.GET("/:id", h.Get)
	routes.PUT("/:id", h.Update)
	routes.DELETE("/:id", h.Delete)
}

// List responds with a filtered, sorted, paginated page of records.
func (h *ResourceHandler) List(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	records, pagination, err := h.svc.List(c.Request.Context(), c.Request.URL.Query(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, records, pagination)
}

// Get responds with a single record by identifier.
func (h *ResourceHandler) Get(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	record, err := h.svc.Get(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Create persists a new record from the request body.
func (h *ResourceHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var body models.Record
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "unparseable request body"))
		return
	}
	record, err := h.svc.Create(c.Request.Context(), body, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, h.label+" created successfully", record)
}

// Update modifies an existing record.
func (h *ResourceHandler) Update(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var body models.Record
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "unparseable request body"))
		return
	}
	record, err := h.svc.Update(c.Request.Context(), c.Param("id"), body, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, h.label+" updated successfully", record)
}

// Delete removes a record and confirms without a data payload.
func (h *ResourceHandler) Delete(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), actor); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, h.label+" deleted successfully", nil)
}

// resourceLabel renders a camelCase resource name as a human label, e.g.
// "academicRecord" becomes "Academic record".
func resourceLabel(name string) string {
	if name == "" {
		return name
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0 && r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		case i > 0 && r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
