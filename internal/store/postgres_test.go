package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-records-api/internal/query"
	"github.com/noah-isme/academic-records-api/internal/resource"
)

func newCollectionMock(t *testing.T) (*SQLCollection, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	coll := NewSQLCollection(sqlx.NewDb(db, "sqlmock"), courseDescriptor())
	return coll, mock, func() { db.Close() }
}

func courseDescriptor() *resource.Descriptor {
	return &resource.Descriptor{
		Name:         "course",
		Collection:   "courses",
		DefaultSort:  resource.Sort{Field: "code"},
		SearchFields: []string{"code", "title"},
		Fields: []resource.FieldSpec{
			{Name: "id", Kind: resource.KindText},
			{Name: "code", Kind: resource.KindText, Required: true},
			{Name: "title", Kind: resource.KindText, Required: true},
			{Name: "credits", Kind: resource.KindNumber},
			{Name: "active", Kind: resource.KindCheckbox},
			{Name: "created_at", Kind: resource.KindDate},
			{Name: "updated_at", Kind: resource.KindDate},
		},
	}
}

func TestFindBuildsParameterisedSQL(t *testing.T) {
	coll, mock, cleanup := newCollectionMock(t)
	defer cleanup()

	spec := &query.Spec{
		Filters: []query.FilterClause{{Field: "credits", Op: query.OpGte, Values: []string{"3"}}},
		Search:  "Mat",
		Sort:    []query.SortKey{{Field: "created_at", Desc: true}, {Field: "code"}},
		Page:    2,
		Limit:   10,
	}

	expected := "SELECT id, code, title, credits, active, created_at, updated_at FROM courses" +
		" WHERE credits >= $1 AND (LOWER(code) LIKE $2 OR LOWER(title) LIKE $2)" +
		" ORDER BY created_at DESC, code ASC LIMIT 10 OFFSET 10"
	rows := sqlmock.NewRows([]string{"id", "code", "title"}).
		AddRow("c1", "MATH101", "Algebra")
	mock.ExpectQuery(regexp.QuoteMeta(expected)).
		WithArgs(3.0, "%mat%").
		WillReturnRows(rows)

	records, err := coll.Find(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "MATH101", records[0]["code"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindInOperatorUsesArrayBinding(t *testing.T) {
	coll, mock, cleanup := newCollectionMock(t)
	defer cleanup()

	spec := &query.Spec{
		Filters: []query.FilterClause{{Field: "code", Op: query.OpIn, Values: []string{"MATH101", "PHYS201"}}},
		Page:    1,
		Limit:   25,
	}

	expected := "SELECT id, code, title, credits, active, created_at, updated_at FROM courses" +
		" WHERE code = ANY($1) ORDER BY code ASC LIMIT 25 OFFSET 0"
	mock.ExpectQuery(regexp.QuoteMeta(expected)).
		WithArgs(pq.Array([]string{"MATH101", "PHYS201"})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code"}).AddRow("c1", "MATH101"))

	records, err := coll.Find(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUnsafePredicates(t *testing.T) {
	coll, mock, cleanup := newCollectionMock(t)
	defer cleanup()

	cases := []query.FilterClause{
		{Field: "password", Op: query.OpEq, Values: []string{"x"}},
		{Field: "title", Op: query.OpGt, Values: []string{"x"}},
		{Field: "credits", Op: query.OpGte, Values: []string{"three"}},
		{Field: "active", Op: query.OpEq, Values: []string{"maybe"}},
	}
	for _, clause := range cases {
		spec := &query.Spec{Filters: []query.FilterClause{clause}, Page: 1, Limit: 25}
		_, err := coll.Find(context.Background(), spec)
		require.ErrorIs(t, err, query.ErrUnsafePredicate, "field %s op %s", clause.Field, clause.Op)
	}
	require.NoError(t, mock.ExpectationsWereMet(), "unsafe predicates must never reach the database")
}

func TestCountIgnoresPagination(t *testing.T) {
	coll, mock, cleanup := newCollectionMock(t)
	defer cleanup()

	spec := &query.Spec{
		Filters: []query.FilterClause{{Field: "active", Op: query.OpEq, Values: []string{"true"}}},
		Page:    7,
		Limit:   10,
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE active = $1")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(57))

	total, err := coll.Count(context.Background(), spec)
	require.NoError(t, err)
	require.Equal(t, 57, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindEscapesSearchWildcards(t *testing.T) {
	coll, mock, cleanup := newCollectionMock(t)
	defer cleanup()

	spec := &query.Spec{Search: "50%_off", Page: 1, Limit: 25}

	expected := "SELECT id, code, title, credits, active, created_at, updated_at FROM courses" +
		" WHERE (LOWER(code) LIKE $1 OR LOWER(title) LIKE $1) ORDER BY code ASC LIMIT 25 OFFSET 0"
	mock.ExpectQuery(regexp.QuoteMeta(expected)).
		WithArgs(`%50\%\_off%`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	records, err := coll.Find(context.Background(), spec)
	require.NoError(t, err)
	require.Empty(t, records)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDProjection(t *testing.T) {
	coll, mock, cleanup := newCollectionMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code FROM courses WHERE id = $1")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code"}).AddRow("c1", "MATH101"))

	rec, err := coll.FindByID(context.Background(), "c1", []string{"code", "bogus"})
	require.NoError(t, err)
	require.Equal(t, "MATH101", rec["code"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDMissing(t *testing.T) {
	coll, mock, cleanup := newCollectionMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT").WithArgs("c9").WillReturnError(sql.ErrNoRows)

	_, err := coll.FindByID(context.Background(), "c9", nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestInsertGeneratesIdentityAndVersion(t *testing.T) {
	coll, mock, cleanup := newCollectionMock(t)
	defer cleanup()

	expected := "INSERT INTO courses (row_version, id, code, title, active, created_at, updated_at)" +
		" VALUES ($1, $2, $3, $4, $5, $6, $7)"
	mock.ExpectExec(regexp.QuoteMeta(expected)).
		WithArgs(1, sqlmock.AnyArg(), "MATH101", "Algebra", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec, err := coll.Insert(context.Background(), map[string]any{
		"code":     "MATH101",
		"title":    "Algebra",
		"active":   true,
		"nonsense": "dropped",
	})
	require.NoError(t, err)
	_, err = uuid.Parse(rec.ID())
	require.NoError(t, err)
	require.NotContains(t, rec, "nonsense")
	require.NotNil(t, rec["created_at"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSurfacesUniqueViolation(t *testing.T) {
	coll, mock, cleanup := newCollectionMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO courses").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "courses_code_key"})

	_, err := coll.Insert(context.Background(), map[string]any{"code": "MATH101", "title": "Algebra"})
	require.Error(t, err)

	field, ok := DuplicateField(err, "courses")
	require.True(t, ok)
	require.Equal(t, "code", field)
}

func TestUpdateBumpsVersionAndRereads(t *testing.T) {
	coll, mock, cleanup := newCollectionMock(t)
	defer cleanup()

	expected := "UPDATE courses SET updated_at = $1, row_version = row_version + 1, title = $2 WHERE id = $3"
	mock.ExpectExec(regexp.QuoteMeta(expected)).
		WithArgs(sqlmock.AnyArg(), "Linear Algebra", "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, title, credits, active, created_at, updated_at FROM courses WHERE id = $1")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow("c1", "Linear Algebra"))

	rec, err := coll.Update(context.Background(), "c1", map[string]any{"title": "Linear Algebra", "id": "hijack"})
	require.NoError(t, err)
	require.Equal(t, "Linear Algebra", rec["title"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingRow(t *testing.T) {
	coll, mock, cleanup := newCollectionMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE courses").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := coll.Update(context.Background(), "c9", map[string]any{"title": "x"})
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDelete(t *testing.T) {
	coll, mock, cleanup := newCollectionMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, coll.Delete(context.Background(), "c1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("c9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, coll.Delete(context.Background(), "c9"), sql.ErrNoRows)
}

func TestNormalizeDecodesJSONColumns(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	desc := &resource.Descriptor{
		Name:        "user",
		Collection:  "users",
		DefaultSort: resource.Sort{Field: "id"},
		Fields: []resource.FieldSpec{
			{Name: "id", Kind: resource.KindText},
			{Name: "full_name", Kind: resource.KindText},
			{Name: "profile", Kind: resource.KindObject},
		},
	}
	coll := NewSQLCollection(sqlx.NewDb(db, "sqlmock"), desc)

	rows := sqlmock.NewRows([]string{"id", "full_name", "profile"}).
		AddRow("u1", []byte("Ada Lovelace"), []byte(`{"phone":"555-0101"}`))
	mock.ExpectQuery("SELECT").WithArgs("u1").WillReturnRows(rows)

	rec, err := coll.FindByID(context.Background(), "u1", nil)
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", rec["full_name"])
	require.Equal(t, map[string]any{"phone": "555-0101"}, rec["profile"])
}

func TestDuplicateFieldNonPQError(t *testing.T) {
	_, ok := DuplicateField(sql.ErrConnDone, "courses")
	require.False(t, ok)
}
