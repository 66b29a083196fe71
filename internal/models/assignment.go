package models

import "time"

// Semester is the closed set of semester grants.
type Semester string

const (
	SemesterFirst  Semester = "1"
	SemesterSecond Semester = "2"
	// SemesterBoth grants access for the whole academic year.
	SemesterBoth Semester = "BOTH"
)

// Valid reports whether the value is one of the defined semesters.
func (s Semester) Valid() bool {
	switch s {
	case SemesterFirst, SemesterSecond, SemesterBoth:
		return true
	}
	return false
}

// Concrete reports whether the value names a single semester.
func (s Semester) Concrete() bool {
	return s == SemesterFirst || s == SemesterSecond
}

// Covers reports whether a granted semester satisfies a requested one.
// A BOTH grant covers either concrete semester.
func (s Semester) Covers(requested Semester) bool {
	return s == requested || s == SemesterBoth
}

// AssignmentRole is the closed set of teaching roles.
type AssignmentRole string

const (
	RolePrimary    AssignmentRole = "PRIMARY"
	RoleSubject    AssignmentRole = "SUBJECT"
	RoleAssistant  AssignmentRole = "ASSISTANT"
	RoleSubstitute AssignmentRole = "SUBSTITUTE"
)

// Valid reports whether the value is a defined role.
func (r AssignmentRole) Valid() bool {
	switch r {
	case RolePrimary, RoleSubject, RoleAssistant, RoleSubstitute:
		return true
	}
	return false
}

// Assignment grants a teacher one subject in one class for a year/semester.
// At most one active assignment exists per (teacher, class, subject, year,
// semester) tuple; removal deactivates rather than deletes.
type Assignment struct {
	ID           string         `db:"id" json:"id"`
	TeacherID    int64          `db:"teacher_id" json:"teacher_id"`
	ClassID      int64          `db:"class_id" json:"class_id"`
	ClassName    string         `db:"class_name" json:"class_name"`
	Subject      string         `db:"subject" json:"subject"`
	AcademicYear int            `db:"academic_year" json:"academic_year"`
	Semester     Semester       `db:"semester" json:"semester"`
	Role         AssignmentRole `db:"role" json:"role"`
	Active       bool           `db:"active" json:"active"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// AssignmentFilter narrows active-assignment lookups. Zero values match all.
type AssignmentFilter struct {
	TeacherID    int64
	ClassID      int64
	ClassName    string
	Subject      string
	AcademicYear int
	Semester     Semester
}
