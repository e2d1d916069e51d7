package rbac

import (
	"strings"

	"github.com/noah-isme/academic-records-api/internal/models"
)

// FilterByAllowed returns a copy of data containing only the allow-listed
// field paths. Unknown fields are dropped, never passed through. A dotted
// path keeps only the named child inside its parent object. The function is
// pure and idempotent.
func FilterByAllowed(data models.Record, allowed []string) models.Record {
	out := make(models.Record, len(allowed))
	if len(data) == 0 || len(allowed) == 0 {
		return out
	}

	direct := make(map[string]struct{})
	nested := make(map[string]map[string]struct{})
	for _, path := range allowed {
		parent, child := splitPath(path)
		if child == "" {
			direct[parent] = struct{}{}
			continue
		}
		if nested[parent] == nil {
			nested[parent] = make(map[string]struct{})
		}
		nested[parent][child] = struct{}{}
	}

	for key, value := range data {
		if _, ok := direct[key]; ok {
			out[key] = value
			continue
		}
		children, ok := nested[key]
		if !ok {
			continue
		}
		if value == nil {
			// A dangling relation degraded to null stays visible as null.
			out[key] = nil
			continue
		}
		if obj, ok := asObject(value); ok {
			out[key] = filterObject(obj, children)
		}
	}
	return out
}

func filterObject(obj map[string]any, children map[string]struct{}) map[string]any {
	filtered := make(map[string]any, len(children))
	for child, v := range obj {
		if _, ok := children[child]; ok {
			filtered[child] = v
		}
	}
	return filtered
}

func asObject(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case models.Record:
		return v, true
	case map[string]any:
		return v, true
	}
	return nil, false
}

// splitPath splits a field path into parent and optional child. Only one
// level of nesting is supported; deeper segments stay with the child and
// therefore never match.
func splitPath(path string) (parent, child string) {
	if idx := strings.IndexByte(path, '.'); idx >= 0 {
		return path[:idx], path[idx+1:]
	}
	return path, ""
}
