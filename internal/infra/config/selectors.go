package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"work_hours_logger/internal/domain/browser"

	"gopkg.in/yaml.v3"
)

// selectorsFile is the YAML layout of SELECTORS_FILE. Every field is
// optional; unset fields keep their defaults.
type selectorsFile struct {
	Selectors struct {
		LoginButton      string `yaml:"login_button"`
		UsernameInput    string `yaml:"username_input"`
		PasswordInput    string `yaml:"password_input"`
		LoggedInMarker   string `yaml:"logged_in_marker"`
		TaskInput        string `yaml:"task_input"`
		TimeInput        string `yaml:"time_input"`
		SubmitButton     string `yaml:"submit_button"`
		LoadingIndicator string `yaml:"loading_indicator"`
		Day              []struct {
			Pattern       string        `yaml:"pattern"`
			ProbeTimeout  time.Duration `yaml:"probe_timeout"`
			SubmitTimeout time.Duration `yaml:"submit_timeout"`
		} `yaml:"day"`
	} `yaml:"selectors"`
	Timings struct {
		LoginWait      time.Duration `yaml:"login_wait"`
		ActionTimeout  time.Duration `yaml:"action_timeout"`
		FormSettle     time.Duration `yaml:"form_settle"`
		SubmitSettle   time.Duration `yaml:"submit_settle"`
		BetweenDays    time.Duration `yaml:"between_days"`
		SpinnerWait    time.Duration `yaml:"spinner_wait"`
		FallbackSettle time.Duration `yaml:"fallback_settle"`
	} `yaml:"timings"`
}

// LoadSelectors returns the default selectors and timings, overridden by
// the YAML file at path when path is non-empty.
func LoadSelectors(path string) (browser.Selectors, browser.Timings, error) {
	sel := browser.DefaultSelectors()
	tim := browser.DefaultTimings()
	if path == "" {
		return sel, tim, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return sel, tim, fmt.Errorf("failed to read selectors file: %w", err)
	}
	var f selectorsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return sel, tim, fmt.Errorf("failed to parse selectors file %s: %w", path, err)
	}

	override(&sel.LoginButton, f.Selectors.LoginButton)
	override(&sel.UsernameInput, f.Selectors.UsernameInput)
	override(&sel.PasswordInput, f.Selectors.PasswordInput)
	override(&sel.LoggedInMarker, f.Selectors.LoggedInMarker)
	override(&sel.TaskInput, f.Selectors.TaskInput)
	override(&sel.TimeInput, f.Selectors.TimeInput)
	override(&sel.SubmitButton, f.Selectors.SubmitButton)
	override(&sel.LoadingIndicator, f.Selectors.LoadingIndicator)

	if len(f.Selectors.Day) > 0 {
		locators := make([]browser.DayLocator, 0, len(f.Selectors.Day))
		for i, d := range f.Selectors.Day {
			if strings.Count(d.Pattern, "%s") != 1 {
				return sel, tim, fmt.Errorf("selectors file %s: day[%d] pattern must contain exactly one %%s", path, i)
			}
			loc := browser.DayLocator{Pattern: d.Pattern, ProbeTimeout: d.ProbeTimeout, SubmitTimeout: d.SubmitTimeout}
			if loc.ProbeTimeout <= 0 {
				loc.ProbeTimeout = 15 * time.Second
			}
			if loc.SubmitTimeout <= 0 {
				loc.SubmitTimeout = loc.ProbeTimeout
			}
			locators = append(locators, loc)
		}
		sel.DayLocators = locators
	}

	overrideDuration(&tim.LoginWait, f.Timings.LoginWait)
	overrideDuration(&tim.ActionTimeout, f.Timings.ActionTimeout)
	overrideDuration(&tim.FormSettle, f.Timings.FormSettle)
	overrideDuration(&tim.SubmitSettle, f.Timings.SubmitSettle)
	overrideDuration(&tim.BetweenDays, f.Timings.BetweenDays)
	overrideDuration(&tim.SpinnerWait, f.Timings.SpinnerWait)
	overrideDuration(&tim.FallbackSettle, f.Timings.FallbackSettle)

	return sel, tim, nil
}

func override(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func overrideDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}
