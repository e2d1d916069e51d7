package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/academic-records-api/internal/models"
	"github.com/noah-isme/academic-records-api/internal/query"
	"github.com/noah-isme/academic-records-api/internal/resource"
)

// versionColumn is bumped on every update and excluded from projections.
const versionColumn = "row_version"

// likeEscaper neutralises LIKE wildcards in user-supplied search terms.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Postgres serves one Collection per registered resource descriptor.
type Postgres struct {
	collections map[string]*SQLCollection
}

// NewPostgres builds collections for every descriptor in the registry.
func NewPostgres(db *sqlx.DB, reg *resource.Registry) *Postgres {
	p := &Postgres{collections: make(map[string]*SQLCollection)}
	for _, name := range reg.Names() {
		desc, _ := reg.Get(name)
		p.collections[name] = NewSQLCollection(db, desc)
	}
	return p
}

// Collection implements Store.
func (p *Postgres) Collection(name string) (Collection, bool) {
	c, ok := p.collections[name]
	return c, ok
}

// SQLCollection compiles query specs into parameterised SQL for one table.
// Field names are resolved against the descriptor's declared columns, so raw
// request tokens never appear in generated SQL.
type SQLCollection struct {
	db     *sqlx.DB
	desc   *resource.Descriptor
	fields map[string]resource.FieldSpec
}

// NewSQLCollection constructs the collection for a descriptor.
func NewSQLCollection(db *sqlx.DB, desc *resource.Descriptor) *SQLCollection {
	fields := make(map[string]resource.FieldSpec, len(desc.Fields))
	for _, f := range desc.Fields {
		fields[f.Name] = f
	}
	return &SQLCollection{db: db, desc: desc, fields: fields}
}

// Find returns the page of records selected by the spec.
func (c *SQLCollection) Find(ctx context.Context, spec *query.Spec) ([]models.Record, error) {
	where, args, err := c.buildWhere(spec)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		strings.Join(c.selectColumns(spec.Projection), ", "),
		c.desc.Collection, where, c.orderBy(spec.Sort), spec.Limit, spec.Offset())

	rows, err := c.db.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.desc.Collection, err)
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		raw := make(map[string]any)
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.desc.Collection, err)
		}
		records = append(records, c.normalize(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find %s: %w", c.desc.Collection, err)
	}
	return records, nil
}

// Count returns the total number of rows matching the spec's filter and
// search predicate, ignoring pagination.
func (c *SQLCollection) Count(ctx context.Context, spec *query.Spec) (int, error) {
	where, args, err := c.buildWhere(spec)
	if err != nil {
		return 0, err
	}
	var total int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", c.desc.Collection, where)
	if err := c.db.GetContext(ctx, &total, q, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", c.desc.Collection, err)
	}
	return total, nil
}

// FindByID fetches a single record, optionally projecting a field subset.
func (c *SQLCollection) FindByID(ctx context.Context, id string, fields []string) (models.Record, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1",
		strings.Join(c.selectColumns(fields), ", "), c.desc.Collection)
	raw := make(map[string]any)
	if err := c.db.QueryRowxContext(ctx, q, id).MapScan(raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get %s: %w", c.desc.Collection, err)
	}
	return c.normalize(raw), nil
}

// Insert persists a new record, generating the identifier and timestamps.
func (c *SQLCollection) Insert(ctx context.Context, rec models.Record) (models.Record, error) {
	out := make(models.Record, len(rec)+4)
	for k, v := range rec {
		if _, declared := c.fields[k]; declared {
			out[k] = v
		}
	}
	if out.ID() == "" {
		out["id"] = uuid.NewString()
	}
	now := time.Now().UTC()
	out["created_at"] = now
	out["updated_at"] = now

	columns := []string{versionColumn}
	args := []any{1}
	for _, f := range c.desc.Fields {
		v, ok := out[f.Name]
		if !ok {
			continue
		}
		encoded, err := encodeValue(f.Kind, v)
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", c.desc.Collection, err)
		}
		columns = append(columns, f.Name)
		args = append(args, encoded)
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		c.desc.Collection, strings.Join(columns, ", "), placeholders(len(args)))
	if _, err := c.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the provided fields, bumps the version column and re-reads
// the row so callers get return-updated semantics.
func (c *SQLCollection) Update(ctx context.Context, id string, changes models.Record) (models.Record, error) {
	assignments := []string{
		"updated_at = $1",
		versionColumn + " = " + versionColumn + " + 1",
	}
	args := []any{time.Now().UTC()}
	for _, f := range c.desc.Fields {
		v, ok := changes[f.Name]
		if !ok || f.Name == "id" || f.Name == "created_at" || f.Name == "updated_at" {
			continue
		}
		encoded, err := encodeValue(f.Kind, v)
		if err != nil {
			return nil, fmt.Errorf("update %s: %w", c.desc.Collection, err)
		}
		args = append(args, encoded)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", f.Name, len(args)))
	}
	args = append(args, id)

	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		c.desc.Collection, strings.Join(assignments, ", "), len(args))
	res, err := c.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, sql.ErrNoRows
	}
	return c.FindByID(ctx, id, nil)
}

// Delete removes the record with the given identifier.
func (c *SQLCollection) Delete(ctx context.Context, id string) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE id = $1", c.desc.Collection)
	res, err := c.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", c.desc.Collection, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (c *SQLCollection) buildWhere(spec *query.Spec) (string, []any, error) {
	var conditions []string
	var args []any

	for _, clause := range spec.Filters {
		f, declared := c.fields[clause.Field]
		if !declared {
			return "", nil, fmt.Errorf("%w: unknown field %q", query.ErrUnsafePredicate, clause.Field)
		}
		if !operatorCompatible(f.Kind, clause.Op) {
			return "", nil, fmt.Errorf("%w: operator %s not applicable to %s", query.ErrUnsafePredicate, clause.Op, clause.Field)
		}
		if clause.Op == query.OpIn {
			list, err := convertList(f.Kind, clause.Values)
			if err != nil {
				return "", nil, err
			}
			args = append(args, list)
			conditions = append(conditions, fmt.Sprintf("%s = ANY($%d)", f.Name, len(args)))
			continue
		}
		value, err := convertValue(f.Kind, clause.Value())
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", query.ErrUnsafePredicate, err)
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s %s $%d", f.Name, sqlOperator(clause.Op), len(args)))
	}

	if spec.Search != "" && len(c.desc.SearchFields) > 0 {
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(spec.Search))+"%")
		matches := make([]string, len(c.desc.SearchFields))
		for i, field := range c.desc.SearchFields {
			matches[i] = fmt.Sprintf("LOWER(%s) LIKE $%d", field, len(args))
		}
		conditions = append(conditions, "("+strings.Join(matches, " OR ")+")")
	}

	if len(conditions) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func (c *SQLCollection) orderBy(keys []query.SortKey) string {
	var parts []string
	for _, key := range keys {
		if _, declared := c.fields[key.Field]; !declared {
			continue
		}
		direction := "ASC"
		if key.Desc {
			direction = "DESC"
		}
		parts = append(parts, key.Field+" "+direction)
	}
	if len(parts) == 0 {
		direction := "ASC"
		if c.desc.DefaultSort.Desc {
			direction = "DESC"
		}
		parts = append(parts, c.desc.DefaultSort.Field+" "+direction)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// selectColumns intersects a requested projection with the declared columns,
// always keeping the identifier. An empty or fully-invalid projection selects
// everything declared; the version column never appears.
func (c *SQLCollection) selectColumns(projection []string) []string {
	if len(projection) == 0 {
		return c.desc.FieldNames()
	}
	requested := map[string]struct{}{"id": {}}
	for _, f := range projection {
		requested[f] = struct{}{}
	}
	var columns []string
	for _, f := range c.desc.Fields {
		if _, ok := requested[f.Name]; ok {
			columns = append(columns, f.Name)
		}
	}
	if len(columns) <= 1 {
		return c.desc.FieldNames()
	}
	return columns
}

func (c *SQLCollection) normalize(raw map[string]any) models.Record {
	rec := make(models.Record, len(raw))
	for key, value := range raw {
		b, isBytes := value.([]byte)
		if !isBytes {
			rec[key] = value
			continue
		}
		switch c.fields[key].Kind {
		case resource.KindObject:
			obj := make(map[string]any)
			if err := json.Unmarshal(b, &obj); err == nil {
				rec[key] = obj
			} else {
				rec[key] = nil
			}
		case resource.KindMultiSelect:
			var list []any
			if err := json.Unmarshal(b, &list); err == nil {
				rec[key] = list
			} else {
				rec[key] = nil
			}
		default:
			rec[key] = string(b)
		}
	}
	return rec
}

func sqlOperator(op query.Operator) string {
	switch op {
	case query.OpEq:
		return "="
	case query.OpNe:
		return "<>"
	case query.OpGt:
		return ">"
	case query.OpGte:
		return ">="
	case query.OpLt:
		return "<"
	case query.OpLte:
		return "<="
	}
	return "="
}

// operatorCompatible encodes which operators make sense per field kind;
// anything else must not reach the database.
func operatorCompatible(kind resource.FieldKind, op query.Operator) bool {
	switch kind {
	case resource.KindNumber, resource.KindDate:
		return true
	case resource.KindText, resource.KindSelect:
		return op == query.OpEq || op == query.OpNe || op == query.OpIn
	case resource.KindCheckbox:
		return op == query.OpEq || op == query.OpNe
	}
	return false
}

func convertValue(kind resource.FieldKind, raw string) (any, error) {
	switch kind {
	case resource.KindNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", raw)
		}
		return n, nil
	case resource.KindDate:
		t, err := parseTime(raw)
		if err != nil {
			return nil, err
		}
		return t, nil
	case resource.KindCheckbox:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("not a boolean: %q", raw)
		}
		return b, nil
	}
	return raw, nil
}

func convertList(kind resource.FieldKind, raw []string) (any, error) {
	switch kind {
	case resource.KindNumber:
		out := make([]float64, len(raw))
		for i, s := range raw {
			n, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: not a number: %q", query.ErrUnsafePredicate, s)
			}
			out[i] = n
		}
		return pq.Array(out), nil
	case resource.KindDate:
		out := make([]time.Time, len(raw))
		for i, s := range raw {
			t, err := parseTime(s)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", query.ErrUnsafePredicate, err)
			}
			out[i] = t
		}
		return pq.Array(out), nil
	}
	return pq.Array(raw), nil
}

// encodeValue prepares a validated body value for its column type.
func encodeValue(kind resource.FieldKind, value any) (any, error) {
	switch kind {
	case resource.KindObject, resource.KindMultiSelect:
		b, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode field: %w", err)
		}
		return b, nil
	case resource.KindDate:
		if s, ok := value.(string); ok {
			return parseTime(s)
		}
	}
	return value, nil
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("not a date: %q", raw)
	}
	return t, nil
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(i+1)
	}
	return strings.Join(parts, ", ")
}
