// Package grading holds the pure score identity and derivation rules.
// Nothing here performs I/O; same inputs always yield the same outputs.
package grading

import (
	"fmt"
	"strings"

	"github.com/vhtran/scorekeeper-api/internal/models"
)

// foldPairs is the fixed Vietnamese diacritic substitution set used when
// building record keys. It is data, not code, so reimplementations can stay
// byte-for-byte compatible.
var foldPairs = []struct {
	runes       string
	replacement rune
}{
	{"àáạảãâầấậẩẫăằắặẳẵ", 'a'},
	{"èéẹẻẽêềếệểễ", 'e'},
	{"ìíịỉĩ", 'i'},
	{"òóọỏõôồốộổỗơờớợởỡ", 'o'},
	{"ùúụủũưừứựửữ", 'u'},
	{"ỳýỵỷỹ", 'y'},
	{"đ", 'd'},
}

var foldTable = buildFoldTable()

func buildFoldTable() map[rune]rune {
	table := make(map[rune]rune)
	for _, pair := range foldPairs {
		for _, r := range pair.runes {
			table[r] = pair.replacement
		}
	}
	return table
}

// Fold normalises a name for use inside a record key: lower-case, substitute
// diacritics via the fixed table, then drop everything outside [a-z0-9].
func Fold(input string) string {
	lowered := strings.ToLower(input)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if mapped, ok := foldTable[r]; ok {
			r = mapped
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ComputeID derives the deterministic record key for a score tuple.
// Two records with identical tuples always collide, which makes duplicate
// detection structural at the storage layer.
func ComputeID(teacherID, studentID int64, className, subject string, year int, semester models.Semester) string {
	return fmt.Sprintf("%d_%d_%s_%s_%d_%s",
		teacherID, studentID, Fold(className), Fold(subject), year, semester)
}
