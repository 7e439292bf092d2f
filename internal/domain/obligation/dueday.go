package obligation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Markers meaning "no filing this month". Imported tables are not consistent
// about accents, so both the accented and plain spellings are recognized.
var notApplicableMarkers = []string{"não há", "nao ha"}

// IsNotApplicable reports whether a due-day specifier marks the month as
// having no filing. Matching is a case-insensitive substring check.
func IsNotApplicable(spec string) bool {
	lower := strings.ToLower(spec)
	for _, marker := range notApplicableMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ParseDueDay extracts the day-of-month from a specifier such as "20" or
// "20ª". Trailing non-digit characters are stripped before parsing. Returns
// ok=false for empty input, input with no leading digits, or a non-positive
// day. Never panics, whatever the input.
func ParseDueDay(spec string) (day int, ok bool) {
	trimmed := strings.TrimSpace(spec)
	end := 0
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	day, err := strconv.Atoi(trimmed[:end])
	if err != nil || day <= 0 {
		return 0, false
	}
	return day, true
}

// CompetenceKey formats the year-month period a routine pertains to, e.g.
// "2024-02" for February 2024.
func CompetenceKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}
