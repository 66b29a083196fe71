package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vhtran/scorekeeper-api/internal/models"
)

func TestFoldStripsDiacriticsAndSpecials(t *testing.T) {
	assert.Equal(t, "tinhoc", Fold("Tin học"))
	assert.Equal(t, "nguvan", Fold("Ngữ Văn"))
	assert.Equal(t, "toan", Fold("Toán"))
	assert.Equal(t, "diali", Fold("Địa lí"))
	assert.Equal(t, "10a2", Fold("10A2"))
	assert.Equal(t, "12b1", Fold("12-B/1"))
	assert.Equal(t, "", Fold("!!! ***"))
}

func TestComputeIDDeterministic(t *testing.T) {
	first := ComputeID(7, 42, "10A2", "Tin học", 2024, models.SemesterFirst)
	second := ComputeID(7, 42, "10A2", "Tin học", 2024, models.SemesterFirst)

	assert.Equal(t, "7_42_10a2_tinhoc_2024_1", first)
	assert.Equal(t, first, second)
}

func TestComputeIDSensitiveToEveryField(t *testing.T) {
	base := ComputeID(7, 42, "10A2", "Tin học", 2024, models.SemesterFirst)

	variants := []string{
		ComputeID(8, 42, "10A2", "Tin học", 2024, models.SemesterFirst),
		ComputeID(7, 43, "10A2", "Tin học", 2024, models.SemesterFirst),
		ComputeID(7, 42, "10A3", "Tin học", 2024, models.SemesterFirst),
		ComputeID(7, 42, "10A2", "Ngữ văn", 2024, models.SemesterFirst),
		ComputeID(7, 42, "10A2", "Tin học", 2025, models.SemesterFirst),
		ComputeID(7, 42, "10A2", "Tin học", 2024, models.SemesterSecond),
	}
	for _, variant := range variants {
		assert.NotEqual(t, base, variant)
	}
}

func TestComputeIDFoldsEquivalentSpellings(t *testing.T) {
	accented := ComputeID(1, 2, "10A1", "Tin học", 2024, models.SemesterSecond)
	plain := ComputeID(1, 2, "10a1", "tinhoc", 2024, models.SemesterSecond)
	assert.Equal(t, accented, plain)
}
