package weekday

import (
	"fmt"
	"strings"
)

// Interval is an inclusive day range that may wrap past Sunday.
type Interval struct {
	Start Code
	End   Code
}

// ParseInterval reads the "Start-End" form, e.g. "Tu-Fr" or "Fr-Mo".
func ParseInterval(raw string) (Interval, error) {
	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return Interval{}, fmt.Errorf("invalid interval format, expected 'Day-Day' (e.g. 'Tu-Fr'), got %q", raw)
	}
	start, err := ParseCode(parts[0])
	if err != nil {
		return Interval{}, fmt.Errorf("error parsing interval %q: %w", raw, err)
	}
	end, err := ParseCode(parts[1])
	if err != nil {
		return Interval{}, fmt.Errorf("error parsing interval %q: %w", raw, err)
	}
	return Interval{Start: start, End: end}, nil
}

// Days expands the interval in calendar order, wrapping to Monday when
// Start comes after End.
func (iv Interval) Days() ([]Code, error) {
	startIdx := iv.Start.Index()
	if startIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDayCode, iv.Start)
	}
	endIdx := iv.End.Index()
	if endIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDayCode, iv.End)
	}

	var days []Code
	if startIdx <= endIdx {
		days = append(days, All[startIdx:endIdx+1]...)
		return days, nil
	}
	days = append(days, All[startIdx:]...)
	days = append(days, All[:endIdx+1]...)
	return days, nil
}

func (iv Interval) String() string {
	return string(iv.Start) + "-" + string(iv.End)
}
