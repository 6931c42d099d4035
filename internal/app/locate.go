package app

import (
	"context"
	"errors"
	"fmt"

	"work_hours_logger/internal/domain/browser"
)

// ErrAllStrategiesFailed is returned when no locator strategy matched.
var ErrAllStrategiesFailed = errors.New("all locator strategies failed")

// tryInOrder runs action with each strategy until one succeeds and
// returns the strategy that worked.
func tryInOrder(ctx context.Context, strategies []browser.Strategy, action func(context.Context, browser.Strategy) error) (browser.Strategy, error) {
	var errs []error
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		err := action(ctx, s)
		if err == nil {
			return s, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Selector, err))
	}
	return browser.Strategy{}, fmt.Errorf("%w: %w", ErrAllStrategiesFailed, errors.Join(errs...))
}

// clickDay brings the UI to a day's entry form.
func clickDay(ctx context.Context, session browser.Session, strategies []browser.Strategy) (browser.Strategy, error) {
	return tryInOrder(ctx, strategies, func(ctx context.Context, s browser.Strategy) error {
		return session.Click(ctx, s.Selector, s.Timeout)
	})
}
