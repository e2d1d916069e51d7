package resource

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)
	require.Equal(t, []string{"user", "course", "program", "academicRecord", "attendance"}, reg.Names())

	course, ok := reg.Get("course")
	require.True(t, ok)
	require.Equal(t, "courses", course.Collection)
	require.Equal(t, "teacher_id", course.OwnerField)
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	d := &Descriptor{
		Name:        "thing",
		Collection:  "things",
		DefaultSort: Sort{Field: "id"},
		Fields:      []FieldSpec{{Name: "id", Kind: KindText}},
	}
	_, err := NewRegistry(d, d)
	require.ErrorContains(t, err, "duplicate")
}

func TestNewRegistryRejectsUndeclaredDefaultSort(t *testing.T) {
	_, err := NewRegistry(&Descriptor{
		Name:        "thing",
		Collection:  "things",
		DefaultSort: Sort{Field: "missing"},
		Fields:      []FieldSpec{{Name: "id", Kind: KindText}},
	})
	require.ErrorContains(t, err, "default sort")
}

func TestNewRegistryRejectsDanglingRelationTarget(t *testing.T) {
	_, err := NewRegistry(&Descriptor{
		Name:        "thing",
		Collection:  "things",
		DefaultSort: Sort{Field: "id"},
		Fields: []FieldSpec{
			{Name: "id", Kind: KindText},
			{Name: "owner_id", Kind: KindText},
		},
		Relations: []RelationSpec{
			{LocalField: "owner_id", TargetResource: "ghost", ProjectedFields: []string{"id"}},
		},
	})
	require.ErrorContains(t, err, "not registered")
}

func TestNewRegistryRejectsUnknownProjectedField(t *testing.T) {
	owner := &Descriptor{
		Name:        "owner",
		Collection:  "owners",
		DefaultSort: Sort{Field: "id"},
		Fields:      []FieldSpec{{Name: "id", Kind: KindText}},
	}
	_, err := NewRegistry(owner, &Descriptor{
		Name:        "thing",
		Collection:  "things",
		DefaultSort: Sort{Field: "id"},
		Fields: []FieldSpec{
			{Name: "id", Kind: KindText},
			{Name: "owner_id", Kind: KindText},
		},
		Relations: []RelationSpec{
			{LocalField: "owner_id", TargetResource: "owner", ProjectedFields: []string{"secret"}},
		},
	})
	require.ErrorContains(t, err, "unknown field")
}
