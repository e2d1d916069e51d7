package query

// Operator is a filter comparison operator from the query-string grammar.
type Operator string

const (
	OpEq  Operator = "eq"
	OpNe  Operator = "ne"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

var supportedOperators = map[Operator]struct{}{
	OpEq: {}, OpNe: {}, OpGt: {}, OpGte: {}, OpLt: {}, OpLte: {}, OpIn: {},
}

// Valid reports whether op is one of the supported operators. Comparison is
// case-sensitive and exact.
func (op Operator) Valid() bool {
	_, ok := supportedOperators[op]
	return ok
}

// FilterClause is one predicate on a single field. Multiple clauses combine
// conjunctively.
type FilterClause struct {
	Field  string
	Op     Operator
	Values []string
}

// Value returns the single comparison value for non-list operators.
func (c FilterClause) Value() string {
	if len(c.Values) == 0 {
		return ""
	}
	return c.Values[0]
}

// SortKey orders results by one field; earlier keys take precedence.
type SortKey struct {
	Field string
	Desc  bool
}

// Spec is the structured, validated form of an incoming list request. A Spec
// is built per request and never mutated after Parse returns it.
type Spec struct {
	Filters    []FilterClause
	Search     string
	Sort       []SortKey
	Projection []string
	Page       int
	Limit      int
}

// Offset is the number of records skipped before the current page.
func (s *Spec) Offset() int {
	return (s.Page - 1) * s.Limit
}
