package query

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/noah-isme/academic-records-api/internal/resource"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
	MaxLimit     = 100
)

// Reserved parameter names are consumed by the parser itself and never become
// filter clauses.
var reservedParams = map[string]struct{}{
	"page": {}, "limit": {}, "sort": {}, "fields": {}, "search": {},
}

// Field tokens in sort and projection lists must be plain identifiers; anything
// else is dropped before it can reach the store.
var fieldTokenRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// Parse turns raw query parameters into a Spec for the given resource.
//
// Pagination is permissive: malformed page/limit silently fall back to
// defaults. Filter operators are strict: an unrecognised bracket operator
// rejects the request so it cannot silently match everything.
func Parse(raw url.Values, desc *resource.Descriptor) (*Spec, error) {
	spec := &Spec{
		Page:   parseBoundedInt(raw.Get("page"), DefaultPage, 1, 0),
		Limit:  parseBoundedInt(raw.Get("limit"), DefaultLimit, 1, MaxLimit),
		Search: strings.TrimSpace(raw.Get("search")),
		Sort:   parseSort(raw.Get("sort"), desc),
	}

	if fields := raw.Get("fields"); fields != "" {
		spec.Projection = parseFieldList(fields)
	}

	for key, values := range raw {
		if _, reserved := reservedParams[key]; reserved {
			continue
		}
		field, op, err := splitFilterKey(key)
		if err != nil {
			return nil, err
		}
		if _, reserved := reservedParams[field]; reserved {
			// A bracket operator on a reserved name, e.g. page[gte].
			continue
		}
		for _, value := range values {
			clause := FilterClause{Field: field, Op: op, Values: []string{value}}
			if op == OpIn {
				clause.Values = splitList(value)
			}
			spec.Filters = append(spec.Filters, clause)
		}
	}
	return spec, nil
}

// splitFilterKey parses "field" or "field[op]" keys. Unknown operators fail
// closed with a bad-request error.
func splitFilterKey(key string) (string, Operator, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, OpEq, nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", appErrors.Clone(appErrors.ErrBadRequest, fmt.Sprintf("malformed filter parameter %q", key))
	}
	op := Operator(key[open+1 : len(key)-1])
	if !op.Valid() {
		return "", "", appErrors.WithDetails(appErrors.ErrBadRequest,
			fmt.Sprintf("unsupported filter operator %q", string(op)), string(op))
	}
	return key[:open], op, nil
}

func parseSort(raw string, desc *resource.Descriptor) []SortKey {
	var keys []SortKey
	for _, token := range splitList(raw) {
		descending := false
		if strings.HasPrefix(token, "-") {
			descending = true
			token = token[1:]
		}
		if !fieldTokenRE.MatchString(token) {
			continue
		}
		keys = append(keys, SortKey{Field: token, Desc: descending})
	}
	if len(keys) == 0 {
		keys = []SortKey{{Field: desc.DefaultSort.Field, Desc: desc.DefaultSort.Desc}}
	}
	return keys
}

func parseFieldList(raw string) []string {
	var fields []string
	for _, token := range splitList(raw) {
		if fieldTokenRE.MatchString(token) {
			fields = append(fields, token)
		}
	}
	return fields
}

func parseBoundedInt(raw string, fallback, min, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < min {
		return fallback
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
