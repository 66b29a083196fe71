package models

import "time"

// SchoolClass represents one class of students.
type SchoolClass struct {
	ID           int64     `db:"id" json:"id"`
	ClassName    string    `db:"class_name" json:"class_name"`
	GradeLevel   int       `db:"grade_level" json:"grade_level"`
	AcademicYear int       `db:"academic_year" json:"academic_year"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Student represents a student on a class roster.
type Student struct {
	ID        int64     `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Teacher represents a teaching staff member.
type Teacher struct {
	ID        int64     `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Enrollment links a student to a class for a year/semester.
type Enrollment struct {
	ID           string    `db:"id" json:"id"`
	StudentID    int64     `db:"student_id" json:"student_id"`
	ClassID      int64     `db:"class_id" json:"class_id"`
	AcademicYear int       `db:"academic_year" json:"academic_year"`
	Semester     Semester  `db:"semester" json:"semester"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
