package browser

import (
	"fmt"
	"time"
)

// Strategy is one way to locate an element, bounded by its own timeout.
type Strategy struct {
	Selector string
	Timeout  time.Duration
}

func (s Strategy) String() string {
	return fmt.Sprintf("%s (%s)", s.Selector, s.Timeout)
}

// DayLocator builds a day strategy from a pattern with one %s for the
// day code. Probing and submitting use different timeouts.
type DayLocator struct {
	Pattern       string
	ProbeTimeout  time.Duration
	SubmitTimeout time.Duration
}

// Selectors describes where things live on the time-tracking site.
type Selectors struct {
	LoginButton      string
	UsernameInput    string
	PasswordInput    string
	LoggedInMarker   string
	DayLocators      []DayLocator
	TaskInput        string
	TimeInput        string
	SubmitButton     string
	LoadingIndicator string
}

// Timings holds the bounded waits used between UI steps.
type Timings struct {
	LoginWait      time.Duration
	ActionTimeout  time.Duration
	FormSettle     time.Duration
	SubmitSettle   time.Duration
	BetweenDays    time.Duration
	SpinnerWait    time.Duration
	FallbackSettle time.Duration
}

func DefaultSelectors() Selectors {
	return Selectors{
		LoginButton:    "button[type='submit']:has-text('Login')",
		UsernameInput:  "input[label='Username']",
		PasswordInput:  "input[label='Password']",
		LoggedInMarker: "button:has-text('Log Hours')",
		DayLocators: []DayLocator{
			{Pattern: "span:has-text('%s')", ProbeTimeout: 20 * time.Second, SubmitTimeout: 20 * time.Second},
			{Pattern: "text=%s", ProbeTimeout: 15 * time.Second, SubmitTimeout: 10 * time.Second},
		},
		TaskInput:        "input[name='task']",
		TimeInput:        "input[name='time']",
		SubmitButton:     "button:has-text('Log Hours')",
		LoadingIndicator: "svg.tw-animate-spin",
	}
}

func DefaultTimings() Timings {
	return Timings{
		LoginWait:      10 * time.Second,
		ActionTimeout:  10 * time.Second,
		FormSettle:     time.Second,
		SubmitSettle:   time.Second,
		BetweenDays:    500 * time.Millisecond,
		SpinnerWait:    10 * time.Second,
		FallbackSettle: 3 * time.Second,
	}
}

// DayStrategies expands the day locators for a day code in order.
func (s Selectors) DayStrategies(day string, forSubmit bool) []Strategy {
	strategies := make([]Strategy, 0, len(s.DayLocators))
	for _, loc := range s.DayLocators {
		timeout := loc.ProbeTimeout
		if forSubmit {
			timeout = loc.SubmitTimeout
		}
		strategies = append(strategies, Strategy{
			Selector: fmt.Sprintf(loc.Pattern, day),
			Timeout:  timeout,
		})
	}
	return strategies
}
