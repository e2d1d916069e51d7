package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-records-api/internal/middleware"
	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/resource"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

type stubService struct {
	records    []models.Record
	record     models.Record
	pagination *models.Pagination
	err        error

	lastQuery url.Values
}

func (s *stubService) List(_ context.Context, raw url.Values, _ models.Actor) ([]models.Record, *models.Pagination, error) {
	s.lastQuery = raw
	return s.records, s.pagination, s.err
}

func (s *stubService) Get(_ context.Context, _ string, _ models.Actor) (models.Record, error) {
	return s.record, s.err
}

func (s *stubService) Create(_ context.Context, _ models.Record, _ models.Actor) (models.Record, error) {
	return s.record, s.err
}

func (s *stubService) Update(_ context.Context, _ string, _ models.Record, _ models.Actor) (models.Record, error) {
	return s.record, s.err
}

func (s *stubService) Delete(_ context.Context, _ string, _ models.Actor) error {
	return s.err
}

func buildRouter(svc crudService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role := c.GetHeader("X-Test-Role"); role != "" {
			c.Set(middleware.ContextActorKey, models.Actor{ID: "actor-1", Role: models.UserRole(role)})
		}
		c.Next()
	})

	desc := &resource.Descriptor{Name: "academicRecord", Collection: "academic_records"}
	NewResourceHandler(desc, svc).Mount(&r.RouterGroup)
	return r
}

func performRequest(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRoutesDeriveFromCollection(t *testing.T) {
	svc := &stubService{records: []models.Record{}, pagination: models.NewPagination(0, 1, 25)}
	router := buildRouter(svc)

	req, _ := http.NewRequest(http.MethodGet, "/academic-records?term=2026-1", nil)
	req.Header.Set("X-Test-Role", string(models.RoleAdmin))
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "2026-1", svc.lastQuery.Get("term"))
}

func TestListEnvelope(t *testing.T) {
	svc := &stubService{
		records:    []models.Record{{"id": "r1"}, {"id": "r2"}},
		pagination: models.NewPagination(12, 1, 2),
	}
	router := buildRouter(svc)

	req, _ := http.NewRequest(http.MethodGet, "/academic-records", nil)
	req.Header.Set("X-Test-Role", string(models.RoleAdmin))
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Success    bool              `json:"success"`
		Count      int               `json:"count"`
		Pagination models.Pagination `json:"pagination"`
		Data       []models.Record   `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, 2, body.Count)
	require.Equal(t, 12, body.Pagination.Total)
	require.Equal(t, 6, body.Pagination.Pages)
	require.True(t, body.Pagination.HasNext)
	require.Len(t, body.Data, 2)
}

func TestMissingActorUnauthorized(t *testing.T) {
	router := buildRouter(&stubService{})

	req, _ := http.NewRequest(http.MethodGet, "/academic-records", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Contains(t, resp.Body.String(), `"success":false`)
}

func TestCreateEnvelope(t *testing.T) {
	svc := &stubService{record: models.Record{"id": "r1", "term": "2026-1"}}
	router := buildRouter(svc)

	req, _ := http.NewRequest(http.MethodPost, "/academic-records", bytes.NewBufferString(`{"term":"2026-1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-Role", string(models.RoleAdmin))
	resp := performRequest(router, req)
	require.Equal(t, http.StatusCreated, resp.Code)
	require.Contains(t, resp.Body.String(), `"message":"Academic record created successfully"`)
}

func TestCreateUnparseableBody(t *testing.T) {
	router := buildRouter(&stubService{})

	req, _ := http.NewRequest(http.MethodPost, "/academic-records", bytes.NewBufferString(`{"term":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-Role", string(models.RoleAdmin))
	resp := performRequest(router, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestServiceErrorsMapToEnvelope(t *testing.T) {
	svc := &stubService{err: appErrors.WithDetails(appErrors.ErrDuplicate, "term already in use", "term")}
	router := buildRouter(svc)

	req, _ := http.NewRequest(http.MethodPost, "/academic-records", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-Role", string(models.RoleAdmin))
	resp := performRequest(router, req)
	require.Equal(t, http.StatusConflict, resp.Code)
	require.Contains(t, resp.Body.String(), `"error":"term already in use"`)
	require.Contains(t, resp.Body.String(), `"details":"term"`)
}

func TestDeleteEnvelope(t *testing.T) {
	router := buildRouter(&stubService{})

	req, _ := http.NewRequest(http.MethodDelete, "/academic-records/r1", nil)
	req.Header.Set("X-Test-Role", string(models.RoleAdmin))
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"message":"Academic record deleted successfully"`)
}
