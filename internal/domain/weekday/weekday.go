// internal/domain/weekday/weekday.go
package weekday

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Code is the two-letter token the time-tracking UI uses for a weekday.
type Code string

const (
	Monday    Code = "Mo"
	Tuesday   Code = "Tu"
	Wednesday Code = "We"
	Thursday  Code = "Th"
	Friday    Code = "Fr"
	Saturday  Code = "Sa"
	Sunday    Code = "Su"
)

// ErrInvalidDayCode is returned when a token is not one of the seven known codes.
var ErrInvalidDayCode = errors.New("invalid day code")

// All lists the codes in calendar order; a code's position is its index.
var All = []Code{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// BusinessDays is the default full-week scope.
var BusinessDays = []Code{Monday, Tuesday, Wednesday, Thursday, Friday}

var fullNames = map[Code]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// ParseCode validates a raw token such as "Tu".
func ParseCode(raw string) (Code, error) {
	c := Code(strings.TrimSpace(raw))
	if _, ok := fullNames[c]; !ok {
		return "", fmt.Errorf("%w: %q (use %s)", ErrInvalidDayCode, raw, joinCodes(All))
	}
	return c, nil
}

// Index returns the fixed 0..6 position of the code, or -1 if unknown.
func (c Code) Index() int {
	for i, known := range All {
		if known == c {
			return i
		}
	}
	return -1
}

// FullName returns "Monday" for "Mo"; unknown codes are returned as-is.
func (c Code) FullName() string {
	if name, ok := fullNames[c]; ok {
		return name
	}
	return string(c)
}

func (c Code) IsWeekend() bool {
	return c == Saturday || c == Sunday
}

// FromTime maps a calendar date to its code.
func FromTime(t time.Time) Code {
	// time.Weekday starts the week on Sunday.
	return All[(int(t.Weekday())+6)%7]
}

func joinCodes(codes []Code) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

// Join renders codes as "Mo, Tu, We".
func Join(codes []Code) string {
	return joinCodes(codes)
}

// JoinFullNames renders codes as "Monday, Tuesday".
func JoinFullNames(codes []Code) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = c.FullName()
	}
	return strings.Join(parts, ", ")
}
