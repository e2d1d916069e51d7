package resource

import (
	"fmt"

	"github.com/noah-isme/academic-records-api/internal/models"
)

// FieldKind is the closed set of field types a descriptor may declare.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumber
	KindDate
	KindSelect
	KindMultiSelect
	KindCheckbox
	KindObject
)

// FieldSpec declares one persisted field of a resource.
type FieldSpec struct {
	Name     string
	Kind     FieldKind
	Required bool
	Options  []string
}

// RelationSpec describes a foreign-key field expanded into a subset of the
// referenced resource's fields.
type RelationSpec struct {
	LocalField      string
	TargetResource  string
	ProjectedFields []string
}

// Sort is a resource's default ordering.
type Sort struct {
	Field string
	Desc  bool
}

// Descriptor is the static metadata for one resource type. Descriptors are
// built once at startup and never mutated afterwards.
type Descriptor struct {
	Name         string
	Collection   string
	OwnerField   string
	DefaultSort  Sort
	SearchFields []string
	Fields       []FieldSpec
	Relations    []RelationSpec

	// PrepareWrite runs on the write-filtered body just before persistence,
	// e.g. to hash credentials. Leave nil when no preparation is needed.
	PrepareWrite func(rec models.Record) error
}

// Field returns the spec for a declared field.
func (d *Descriptor) Field(name string) (FieldSpec, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldNames lists every declared field in declaration order.
func (d *Descriptor) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// Registry is the immutable set of descriptors the process serves.
type Registry struct {
	byName map[string]*Descriptor
	order  []string
}

// NewRegistry validates the descriptor set and builds the lookup table.
func NewRegistry(descriptors ...*Descriptor) (*Registry, error) {
	reg := &Registry{byName: make(map[string]*Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if d.Name == "" || d.Collection == "" {
			return nil, fmt.Errorf("resource: descriptor missing name or collection")
		}
		if _, dup := reg.byName[d.Name]; dup {
			return nil, fmt.Errorf("resource: duplicate descriptor %q", d.Name)
		}
		reg.byName[d.Name] = d
		reg.order = append(reg.order, d.Name)
	}
	for _, d := range descriptors {
		if err := reg.validate(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (r *Registry) validate(d *Descriptor) error {
	if _, ok := d.Field(d.DefaultSort.Field); !ok {
		return fmt.Errorf("resource %s: default sort field %q not declared", d.Name, d.DefaultSort.Field)
	}
	if d.OwnerField != "" {
		if _, ok := d.Field(d.OwnerField); !ok {
			return fmt.Errorf("resource %s: owner field %q not declared", d.Name, d.OwnerField)
		}
	}
	for _, f := range d.SearchFields {
		if _, ok := d.Field(f); !ok {
			return fmt.Errorf("resource %s: search field %q not declared", d.Name, f)
		}
	}
	for _, rel := range d.Relations {
		if _, ok := d.Field(rel.LocalField); !ok {
			return fmt.Errorf("resource %s: relation field %q not declared", d.Name, rel.LocalField)
		}
		target, ok := r.byName[rel.TargetResource]
		if !ok {
			return fmt.Errorf("resource %s: relation target %q not registered", d.Name, rel.TargetResource)
		}
		for _, pf := range rel.ProjectedFields {
			if _, ok := target.Field(pf); !ok {
				return fmt.Errorf("resource %s: relation %s projects unknown field %q", d.Name, rel.LocalField, pf)
			}
		}
	}
	return nil
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names lists registered resources in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
