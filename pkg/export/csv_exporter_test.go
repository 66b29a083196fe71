package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhtran/scorekeeper-api/internal/models"
)

func TestBuildScoreSheetPrefersStudentName(t *testing.T) {
	name := "Nguyễn Văn An"
	sheet := BuildScoreSheet("Class 10A2", []models.ScoreRecord{
		{
			StudentID:       42,
			StudentName:     &name,
			ClassName:       "10A2",
			Subject:         "Tin học",
			AcademicYear:    2024,
			Semester:        models.SemesterFirst,
			ComponentScores: []int{8, 9},
			Midterm:         7,
			Final:           8,
			Average:         7.8,
		},
		{
			StudentID:    43,
			ClassName:    "10A2",
			Subject:      "Tin học",
			AcademicYear: 2024,
			Semester:     models.SemesterFirst,
			Average:      0,
		},
	})

	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Nguyễn Văn An", sheet.Rows[0][0])
	assert.Equal(t, "8 9", sheet.Rows[0][5])
	assert.Equal(t, "7.8", sheet.Rows[0][8])
	assert.Equal(t, "43", sheet.Rows[1][0])
	assert.Equal(t, "0.0", sheet.Rows[1][8])
}

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	payload, err := exporter.Render(ScoreSheet{
		Headers: []string{"Student", "Average"},
		Rows:    [][]string{{"An", "7.8"}, {"Bình", "9.0"}},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Student,Average", lines[0])
	assert.Equal(t, "An,7.8", lines[1])
}

func TestCSVExporterRejectsEmptyHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(ScoreSheet{})
	assert.Error(t, err)
}
