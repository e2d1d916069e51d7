package resource

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/academic-records-api/internal/models"
)

var validate = validator.New()

// Server-managed columns are never part of write validation.
var managedFields = map[string]struct{}{
	"id":         {},
	"created_at": {},
	"updated_at": {},
}

// ValidateWrite checks a write-filtered body against the descriptor's field
// specs and returns one human-readable message per violation. With partial
// set, absent fields are not treated as missing (update semantics).
func (d *Descriptor) ValidateWrite(rec models.Record, partial bool) []string {
	var messages []string

	if !partial {
		for _, f := range d.Fields {
			if _, managed := managedFields[f.Name]; managed || !f.Required {
				continue
			}
			if v, ok := rec[f.Name]; !ok || v == nil || v == "" {
				messages = append(messages, fmt.Sprintf("%s is required", f.Name))
			}
		}
	}

	for name, value := range rec {
		spec, ok := d.Field(name)
		if !ok || value == nil {
			continue
		}
		if msg := checkKind(spec, value); msg != "" {
			messages = append(messages, msg)
		}
	}
	return messages
}

func checkKind(spec FieldSpec, value any) string {
	switch spec.Kind {
	case KindText:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("%s must be a string", spec.Name)
		}
	case KindNumber:
		switch v := value.(type) {
		case float64, int, int64:
		case string:
			if err := validate.Var(v, "numeric"); err != nil {
				return fmt.Sprintf("%s must be a number", spec.Name)
			}
		default:
			return fmt.Sprintf("%s must be a number", spec.Name)
		}
	case KindDate:
		s, ok := value.(string)
		if !ok {
			if _, isTime := value.(time.Time); isTime {
				return ""
			}
			return fmt.Sprintf("%s must be a date", spec.Name)
		}
		if !parseableDate(s) {
			return fmt.Sprintf("%s must be an RFC3339 or YYYY-MM-DD date", spec.Name)
		}
	case KindSelect:
		s, ok := value.(string)
		if !ok || !contains(spec.Options, s) {
			return fmt.Sprintf("%s must be one of %v", spec.Name, spec.Options)
		}
	case KindMultiSelect:
		items, ok := toStringSlice(value)
		if !ok {
			return fmt.Sprintf("%s must be a list", spec.Name)
		}
		for _, item := range items {
			if !contains(spec.Options, item) {
				return fmt.Sprintf("%s contains invalid option %q", spec.Name, item)
			}
		}
	case KindCheckbox:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("%s must be a boolean", spec.Name)
		}
	case KindObject:
		switch value.(type) {
		case map[string]any, models.Record:
		default:
			return fmt.Sprintf("%s must be an object", spec.Name)
		}
	}
	return ""
}

func parseableDate(s string) bool {
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
