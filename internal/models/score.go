package models

import (
	"strconv"
	"strings"
	"time"
)

// ScoreRecord is one student's grade entry for a
// (teacher, student, class, subject, year, semester) tuple. The id is derived
// from that tuple, so the tuple itself is the primary key.
type ScoreRecord struct {
	ID           string   `db:"id" json:"id"`
	TeacherID    int64    `db:"teacher_id" json:"teacher_id"`
	StudentID    int64    `db:"student_id" json:"student_id"`
	ClassID      int64    `db:"class_id" json:"class_id"`
	ClassName    string   `db:"class_name" json:"class_name"`
	Subject      string   `db:"subject" json:"subject"`
	AcademicYear int      `db:"academic_year" json:"academic_year"`
	Semester     Semester `db:"semester" json:"semester"`

	// Components holds the continuous-assessment scores as a comma-separated
	// string for storage; ComponentScores is the decoded view.
	Components      string `db:"components" json:"-"`
	ComponentScores []int  `db:"-" json:"component_scores"`

	Midterm int     `db:"midterm" json:"midterm"`
	Final   int     `db:"final" json:"final"`
	Average float64 `db:"average" json:"average"`

	Comment     *string   `db:"comment" json:"comment,omitempty"`
	StudentName *string   `db:"student_name" json:"student_name,omitempty"`
	TeacherName *string   `db:"teacher_name" json:"teacher_name,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// EncodeComponents serialises ComponentScores into the storage column.
func (s *ScoreRecord) EncodeComponents() {
	if len(s.ComponentScores) == 0 {
		s.Components = ""
		return
	}
	parts := make([]string, len(s.ComponentScores))
	for i, v := range s.ComponentScores {
		parts[i] = strconv.Itoa(v)
	}
	s.Components = strings.Join(parts, ",")
}

// DecodeComponents populates ComponentScores from the storage column.
// Malformed entries are skipped rather than failing the read.
func (s *ScoreRecord) DecodeComponents() {
	s.ComponentScores = nil
	if strings.TrimSpace(s.Components) == "" {
		return
	}
	for _, part := range strings.Split(s.Components, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		s.ComponentScores = append(s.ComponentScores, v)
	}
}

// ScoreFilter narrows score listings.
type ScoreFilter struct {
	TeacherID    int64
	StudentID    int64
	ClassName    string
	Subject      string
	AcademicYear int
	Semester     Semester
}
