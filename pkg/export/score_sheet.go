package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vhtran/scorekeeper-api/internal/models"
)

// ScoreSheet is the tabular form of a set of score records, ready for
// rendering into CSV or PDF.
type ScoreSheet struct {
	Title   string
	Headers []string
	Rows    [][]string
}

var scoreSheetHeaders = []string{
	"Student", "Class", "Subject", "Year", "Semester",
	"Components", "Midterm", "Final", "Average",
}

// BuildScoreSheet flattens score records into a sheet. Rows keep the order of
// the input slice.
func BuildScoreSheet(title string, records []models.ScoreRecord) ScoreSheet {
	sheet := ScoreSheet{
		Title:   title,
		Headers: scoreSheetHeaders,
		Rows:    make([][]string, 0, len(records)),
	}
	for _, r := range records {
		student := strconv.FormatInt(r.StudentID, 10)
		if r.StudentName != nil && *r.StudentName != "" {
			student = *r.StudentName
		}
		components := make([]string, len(r.ComponentScores))
		for i, c := range r.ComponentScores {
			components[i] = strconv.Itoa(c)
		}
		sheet.Rows = append(sheet.Rows, []string{
			student,
			r.ClassName,
			r.Subject,
			strconv.Itoa(r.AcademicYear),
			string(r.Semester),
			strings.Join(components, " "),
			strconv.Itoa(r.Midterm),
			strconv.Itoa(r.Final),
			fmt.Sprintf("%.1f", r.Average),
		})
	}
	return sheet
}
