package rbac

import "github.com/noah-isme/academic-records-api/internal/models"

// DefaultPolicy is the static policy table for the academic records API.
// Changing it requires a redeploy; nothing mutates it at runtime.
func DefaultPolicy() *Policy {
	userRead := []string{"id", "username", "email", "full_name", "role", "active", "profile.phone", "profile.bio", "profile.address", "created_at", "updated_at"}
	userWrite := []string{"username", "email", "full_name", "password", "role", "active", "profile.phone", "profile.bio", "profile.address"}
	courseRead := []string{"id", "code", "title", "description", "credits", "teacher_id.id", "teacher_id.full_name", "teacher_id.email", "active", "created_at", "updated_at"}
	courseWrite := []string{"code", "title", "description", "credits", "teacher_id", "active"}
	programRead := []string{"id", "name", "degree", "duration_years", "description", "created_at", "updated_at"}
	programWrite := []string{"name", "degree", "duration_years", "description"}
	recordRead := []string{"id", "student_id.id", "student_id.full_name", "course_id.id", "course_id.code", "course_id.title", "term", "score", "grade", "status", "remarks", "created_at", "updated_at"}
	recordWrite := []string{"student_id", "course_id", "term", "score", "grade", "status", "remarks"}
	attendanceRead := []string{"id", "student_id.id", "student_id.full_name", "course_id.id", "course_id.code", "course_id.title", "date", "status", "note", "created_at", "updated_at"}
	attendanceWrite := []string{"student_id", "course_id", "date", "status", "note"}

	return NewPolicy(
		// Admins hold blanket access to every resource.
		Permission{Role: models.RoleAdmin, Resource: "user", Action: ActionRead, AllowedFields: userRead},
		Permission{Role: models.RoleAdmin, Resource: "user", Action: ActionWrite, AllowedFields: userWrite},
		Permission{Role: models.RoleAdmin, Resource: "course", Action: ActionRead, AllowedFields: courseRead},
		Permission{Role: models.RoleAdmin, Resource: "course", Action: ActionWrite, AllowedFields: courseWrite},
		Permission{Role: models.RoleAdmin, Resource: "program", Action: ActionRead, AllowedFields: programRead},
		Permission{Role: models.RoleAdmin, Resource: "program", Action: ActionWrite, AllowedFields: programWrite},
		Permission{Role: models.RoleAdmin, Resource: "academicRecord", Action: ActionRead, AllowedFields: recordRead},
		Permission{Role: models.RoleAdmin, Resource: "academicRecord", Action: ActionWrite, AllowedFields: recordWrite},
		Permission{Role: models.RoleAdmin, Resource: "attendance", Action: ActionRead, AllowedFields: attendanceRead},
		Permission{Role: models.RoleAdmin, Resource: "attendance", Action: ActionWrite, AllowedFields: attendanceWrite},

		// Teachers read rosters broadly but may only edit themselves and
		// records they own.
		Permission{Role: models.RoleTeacher, Resource: "user", Action: ActionRead, AllowedFields: []string{"id", "full_name", "role", "active"}},
		Permission{Role: models.RoleTeacher, Resource: "user", Action: ActionWrite, OwnOnly: true, AllowedFields: []string{"email", "full_name", "password", "profile.phone", "profile.bio"}},
		Permission{Role: models.RoleTeacher, Resource: "course", Action: ActionRead, AllowedFields: courseRead},
		Permission{Role: models.RoleTeacher, Resource: "course", Action: ActionWrite, OwnOnly: true, AllowedFields: []string{"title", "description", "active"}},
		Permission{Role: models.RoleTeacher, Resource: "program", Action: ActionRead, AllowedFields: programRead},
		Permission{Role: models.RoleTeacher, Resource: "academicRecord", Action: ActionRead, AllowedFields: recordRead},
		Permission{Role: models.RoleTeacher, Resource: "academicRecord", Action: ActionWrite, OwnOnly: true, AllowedFields: recordWrite},
		Permission{Role: models.RoleTeacher, Resource: "attendance", Action: ActionRead, AllowedFields: attendanceRead},
		Permission{Role: models.RoleTeacher, Resource: "attendance", Action: ActionWrite, OwnOnly: true, AllowedFields: attendanceWrite},

		// Students see shared catalogs and only their own records.
		Permission{Role: models.RoleStudent, Resource: "user", Action: ActionRead, OwnOnly: true, AllowedFields: []string{"id", "username", "email", "full_name", "role", "profile.phone", "profile.bio"}},
		Permission{Role: models.RoleStudent, Resource: "user", Action: ActionWrite, OwnOnly: true, AllowedFields: []string{"email", "password", "profile.phone", "profile.bio"}},
		Permission{Role: models.RoleStudent, Resource: "course", Action: ActionRead, AllowedFields: []string{"id", "code", "title", "credits", "teacher_id.full_name"}},
		Permission{Role: models.RoleStudent, Resource: "program", Action: ActionRead, AllowedFields: programRead},
		Permission{Role: models.RoleStudent, Resource: "academicRecord", Action: ActionRead, OwnOnly: true, AllowedFields: recordRead},
		Permission{Role: models.RoleStudent, Resource: "attendance", Action: ActionRead, OwnOnly: true, AllowedFields: attendanceRead},
	)
}
