package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	inputLayout   = "2006-01-02"
	displayLayout = "02/01/2006"
	// storedHour pins calendar dates to local noon so that shifting by any real-world
	// UTC offset keeps the same day.
	storedHour = 12
)

// ParseInputDate converts a YYYY-MM-DD form value into the instant stored for that calendar
// day: 12:00 in loc. Components are parsed directly rather than through a layout parser that
// would anchor the value at UTC midnight.
func ParseInputDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in %q: %w", value, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid month in %q", value)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > daysIn(time.Month(month), year) {
		return time.Time{}, fmt.Errorf("invalid day in %q", value)
	}

	return FromComponents(year, time.Month(month), day, loc), nil
}

// FromComponents builds the stored instant for a calendar day.
func FromComponents(year int, month time.Month, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, month, day, storedHour, 0, 0, 0, loc)
}

// InputDate renders t as the YYYY-MM-DD value of a date-only input, reading calendar fields in loc.
func InputDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(inputLayout)
}

// Date renders t in the pt-BR short form DD/MM/YYYY.
func Date(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(displayLayout)
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
