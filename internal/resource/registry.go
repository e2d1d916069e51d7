package resource

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academic-records-api/internal/models"
)

// DefaultRegistry builds the descriptor set served by the API. The registry is
// constructed once in main and passed by reference; nothing mutates it later.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(
		userDescriptor(),
		courseDescriptor(),
		programDescriptor(),
		academicRecordDescriptor(),
		attendanceDescriptor(),
	)
}

func userDescriptor() *Descriptor {
	return &Descriptor{
		Name:         "user",
		Collection:   "users",
		OwnerField:   "id",
		DefaultSort:  Sort{Field: "full_name"},
		SearchFields: []string{"full_name", "username", "email"},
		Fields: []FieldSpec{
			{Name: "id", Kind: KindText},
			{Name: "username", Kind: KindText, Required: true},
			{Name: "email", Kind: KindText, Required: true},
			{Name: "full_name", Kind: KindText, Required: true},
			{Name: "password", Kind: KindText, Required: true},
			{Name: "role", Kind: KindSelect, Required: true, Options: []string{string(models.RoleAdmin), string(models.RoleTeacher), string(models.RoleStudent)}},
			{Name: "active", Kind: KindCheckbox},
			{Name: "profile", Kind: KindObject},
			{Name: "created_at", Kind: KindDate},
			{Name: "updated_at", Kind: KindDate},
		},
		PrepareWrite: hashPassword,
	}
}

func courseDescriptor() *Descriptor {
	return &Descriptor{
		Name:         "course",
		Collection:   "courses",
		OwnerField:   "teacher_id",
		DefaultSort:  Sort{Field: "code"},
		SearchFields: []string{"code", "title"},
		Fields: []FieldSpec{
			{Name: "id", Kind: KindText},
			{Name: "code", Kind: KindText, Required: true},
			{Name: "title", Kind: KindText, Required: true},
			{Name: "description", Kind: KindText},
			{Name: "credits", Kind: KindNumber},
			{Name: "teacher_id", Kind: KindText},
			{Name: "active", Kind: KindCheckbox},
			{Name: "created_at", Kind: KindDate},
			{Name: "updated_at", Kind: KindDate},
		},
		Relations: []RelationSpec{
			{LocalField: "teacher_id", TargetResource: "user", ProjectedFields: []string{"id", "full_name", "email"}},
		},
	}
}

func programDescriptor() *Descriptor {
	return &Descriptor{
		Name:         "program",
		Collection:   "programs",
		DefaultSort:  Sort{Field: "name"},
		SearchFields: []string{"name"},
		Fields: []FieldSpec{
			{Name: "id", Kind: KindText},
			{Name: "name", Kind: KindText, Required: true},
			{Name: "degree", Kind: KindSelect, Required: true, Options: []string{"DIPLOMA", "BACHELOR", "MASTER"}},
			{Name: "duration_years", Kind: KindNumber},
			{Name: "description", Kind: KindText},
			{Name: "created_at", Kind: KindDate},
			{Name: "updated_at", Kind: KindDate},
		},
	}
}

func academicRecordDescriptor() *Descriptor {
	return &Descriptor{
		Name:         "academicRecord",
		Collection:   "academic_records",
		OwnerField:   "student_id",
		DefaultSort:  Sort{Field: "created_at", Desc: true},
		SearchFields: []string{"term", "remarks"},
		Fields: []FieldSpec{
			{Name: "id", Kind: KindText},
			{Name: "student_id", Kind: KindText, Required: true},
			{Name: "course_id", Kind: KindText, Required: true},
			{Name: "term", Kind: KindText, Required: true},
			{Name: "score", Kind: KindNumber},
			{Name: "grade", Kind: KindSelect, Options: []string{"A", "B", "C", "D", "E"}},
			{Name: "status", Kind: KindSelect, Options: []string{"IN_PROGRESS", "PASSED", "FAILED"}},
			{Name: "remarks", Kind: KindText},
			{Name: "created_at", Kind: KindDate},
			{Name: "updated_at", Kind: KindDate},
		},
		Relations: []RelationSpec{
			{LocalField: "student_id", TargetResource: "user", ProjectedFields: []string{"id", "full_name"}},
			{LocalField: "course_id", TargetResource: "course", ProjectedFields: []string{"id", "code", "title"}},
		},
	}
}

func attendanceDescriptor() *Descriptor {
	return &Descriptor{
		Name:         "attendance",
		Collection:   "attendances",
		OwnerField:   "student_id",
		DefaultSort:  Sort{Field: "date", Desc: true},
		SearchFields: []string{"note"},
		Fields: []FieldSpec{
			{Name: "id", Kind: KindText},
			{Name: "student_id", Kind: KindText, Required: true},
			{Name: "course_id", Kind: KindText, Required: true},
			{Name: "date", Kind: KindDate, Required: true},
			{Name: "status", Kind: KindSelect, Required: true, Options: []string{"PRESENT", "ABSENT", "EXCUSED", "LATE"}},
			{Name: "note", Kind: KindText},
			{Name: "created_at", Kind: KindDate},
			{Name: "updated_at", Kind: KindDate},
		},
		Relations: []RelationSpec{
			{LocalField: "student_id", TargetResource: "user", ProjectedFields: []string{"id", "full_name"}},
			{LocalField: "course_id", TargetResource: "course", ProjectedFields: []string{"id", "code", "title"}},
		},
	}
}

func hashPassword(rec models.Record) error {
	raw, ok := rec["password"].(string)
	if !ok || raw == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	rec["password"] = string(hash)
	return nil
}
