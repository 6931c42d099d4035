package weekday

import (
	"errors"
	"fmt"
	"time"
)

// ModeKind selects which days a run covers.
type ModeKind string

const (
	ModeToday    ModeKind = "TODAY"
	ModeDay      ModeKind = "DAY"
	ModeInterval ModeKind = "INTERVAL"
	ModeWeek     ModeKind = "WEEK"
)

// ErrWeekend signals that a "today" run landed on Saturday or Sunday and
// there is nothing to submit.
var ErrWeekend = errors.New("today is a weekend, no work hours to log")

// Mode is the resolved day selection for one run. Day is set only for
// ModeDay and Interval only for ModeInterval.
type Mode struct {
	Kind     ModeKind
	Day      Code
	Interval Interval
}

func Today() Mode { return Mode{Kind: ModeToday} }
func SingleDay(c Code) Mode { return Mode{Kind: ModeDay, Day: c} }
func Range(iv Interval) Mode { return Mode{Kind: ModeInterval, Interval: iv} }
func FullWeek() Mode { return Mode{Kind: ModeWeek} }
func (m Mode) IsToday() bool { return m.Kind == ModeToday }
func (m Mode) IsFullWeek() bool { return m.Kind == ModeWeek }
func (m Mode) IsSingleDay() bool { return m.Kind == ModeDay }
func (m Mode) IsIntervalRun() bool { return m.Kind == ModeInterval }

// ParseMode builds a Mode from the mutually exclusive CLI selections.
// With nothing selected it falls back to the full business week.
func ParseMode(today bool, day, interval string) (Mode, error) {
	selected := 0
	if today {
		selected++
	}
	if day != "" {
		selected++
	}
	if interval != "" {
		selected++
	}
	if selected > 1 {
		return Mode{}, fmt.Errorf("only one of today, day or interval may be selected")
	}

	switch {
	case today:
		return Today(), nil
	case day != "":
		c, err := ParseCode(day)
		if err != nil {
			return Mode{}, err
		}
		return SingleDay(c), nil
	case interval != "":
		iv, err := ParseInterval(interval)
		if err != nil {
			return Mode{}, err
		}
		return Range(iv), nil
	default:
		return FullWeek(), nil
	}
}

// Resolve turns a mode into the ordered days to process. now is only
// consulted for ModeToday.
func Resolve(m Mode, now time.Time) ([]Code, error) {
	switch m.Kind {
	case ModeToday:
		c := FromTime(now)
		if c.IsWeekend() {
			return nil, fmt.Errorf("%w (%s)", ErrWeekend, c.FullName())
		}
		return []Code{c}, nil
	case ModeDay:
		if m.Day.Index() < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDayCode, m.Day)
		}
		return []Code{m.Day}, nil
	case ModeInterval:
		return m.Interval.Days()
	case ModeWeek:
		days := make([]Code, len(BusinessDays))
		copy(days, BusinessDays)
		return days, nil
	default:
		return nil, fmt.Errorf("unknown run mode %q", m.Kind)
	}
}

// Describe is the human-readable label used in logs and notifications.
func (m Mode) Describe(now time.Time) string {
	switch m.Kind {
	case ModeToday:
		return fmt.Sprintf("Single day (Today - %s)", FromTime(now).FullName())
	case ModeDay:
		return fmt.Sprintf("Single day (%s)", m.Day.FullName())
	case ModeInterval:
		days, err := m.Interval.Days()
		if err != nil {
			return fmt.Sprintf("Interval (%s)", m.Interval)
		}
		return fmt.Sprintf("Interval (%s) - %s", m.Interval, JoinFullNames(days))
	default:
		return "Full work week (Monday-Friday)"
	}
}
