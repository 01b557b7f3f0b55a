package matching

import (
	"strconv"
	"strings"
	"time"
)

// Age bounds used as a plausibility filter against malformed or deliberately
// obscured birth years.
const (
	minPlausibleAge = 10
	maxPlausibleAge = 100
)

// CalculateAge derives an age from a "d.m.yyyy" birth-date string. VK also
// serves the partial "d.m" form when the year is hidden; that and anything
// else without a parsable year yields ok=false. The result is calendar-year
// arithmetic, not an age-in-days computation.
func CalculateAge(birthDate string) (int, bool) {
	if birthDate == "" {
		return 0, false
	}
	parts := strings.Split(birthDate, ".")
	if len(parts) < 3 {
		return 0, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, false
	}
	age := time.Now().Year() - year
	if age < minPlausibleAge || age > maxPlausibleAge {
		return 0, false
	}
	return age, true
}
