package task

import (
	"fmt"
	"strings"
)

// Day is one of the five weekday columns of the grid. It is a label, not a date.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// NumDays is the number of day columns.
const NumDays = 5

// Days returns all day columns in display order.
func Days() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday}
}

// Valid returns true if d is one of the five columns.
func (d Day) Valid() bool {
	return d >= Monday && d <= Friday
}

// String returns the short name of the day ("Mon").
func (d Day) String() string {
	return DayShortName(d)
}

// DayName returns the name of the day (0=Monday).
func DayName(d Day) string {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	if !d.Valid() {
		return ""
	}
	return names[d]
}

// DayShortName returns the short name of the day (0=Monday).
func DayShortName(d Day) string {
	names := []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	if !d.Valid() {
		return ""
	}
	return names[d]
}

// ParseDay accepts short or long English day names, case-insensitive.
func ParseDay(s string) (Day, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range Days() {
		if s == strings.ToLower(DayShortName(d)) || s == strings.ToLower(DayName(d)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// Row is a priority row of the grid.
type Row int

const (
	RowImportant Row = iota
	RowMustBeDone
	RowNotEveryWeek
)

// NumRows is the number of priority rows.
const NumRows = 3

// Rows returns all rows in display order.
func Rows() []Row {
	return []Row{RowImportant, RowMustBeDone, RowNotEveryWeek}
}

// Valid returns true if r is a known row.
func (r Row) Valid() bool {
	return r >= RowImportant && r <= RowNotEveryWeek
}

// AllowsAlternatives reports whether blocks in this row may form alternative groups.
func (r Row) AllowsAlternatives() bool {
	return r == RowNotEveryWeek
}

// String returns the row key used in config, storage and descriptors.
func (r Row) String() string {
	switch r {
	case RowImportant:
		return "important"
	case RowMustBeDone:
		return "must"
	case RowNotEveryWeek:
		return "noteveryweek"
	default:
		return ""
	}
}

// Label returns the display name of the row.
func (r Row) Label() string {
	switch r {
	case RowImportant:
		return "Important"
	case RowMustBeDone:
		return "Must be done"
	case RowNotEveryWeek:
		return "Not every week"
	default:
		return ""
	}
}

// ParseRow accepts the row key, its label, or its 1-based position.
func ParseRow(s string) (Row, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "important", "1":
		return RowImportant, nil
	case "must", "mustbedone", "2":
		return RowMustBeDone, nil
	case "noteveryweek", "3":
		return RowNotEveryWeek, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRow, s)
	}
}

// Slot is the (day, row) address of a placement.
type Slot struct {
	Day Day
	Row Row
}

// Validate checks that both coordinates are in range.
func (s Slot) Validate() error {
	if !s.Day.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDay, s.Day)
	}
	if !s.Row.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidRow, s.Row)
	}
	return nil
}

// String formats the slot as "Mon/important", the form ParseSlot accepts.
func (s Slot) String() string {
	return s.Day.String() + "/" + s.Row.String()
}

// ParseSlot parses "Mon/important" (or "mon:3").
func ParseSlot(s string) (Slot, error) {
	sep := strings.IndexAny(s, "/:")
	if sep < 0 {
		return Slot{}, fmt.Errorf("slot must be DAY/ROW, got %q", s)
	}
	day, err := ParseDay(s[:sep])
	if err != nil {
		return Slot{}, err
	}
	row, err := ParseRow(s[sep+1:])
	if err != nil {
		return Slot{}, err
	}
	return Slot{Day: day, Row: row}, nil
}
