// Package refresher re-fetches catalog stores on a cron schedule.
package refresher

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"inventory-catalog/internal/apperrors"
	"inventory-catalog/internal/models"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Target is anything that can be refreshed; *store.Store is one.
type Target interface {
	Kind() models.Kind
	Refresh(ctx context.Context) error
}

type Refresher struct {
	sched   *cron.Cron
	timeout time.Duration
	targets []Target
}

// New schedules a refresh of every target on spec ("@every 1m", "0 */5 * * * *").
// Each run gets its own timeout.
func New(spec string, timeout time.Duration, targets ...Target) (*Refresher, error) {
	r := &Refresher{
		sched:   cron.New(cron.WithParser(cronParser)),
		timeout: timeout,
		targets: targets,
	}
	if _, err := r.sched.AddFunc(spec, r.run); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Refresher) Start() { r.sched.Start() }

// Stop halts the schedule and returns a context that is done once a running
// refresh has finished.
func (r *Refresher) Stop() context.Context { return r.sched.Stop() }

func (r *Refresher) run() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	if err := r.RefreshAll(ctx); err != nil {
		zap.S().Warnw("scheduled_refresh_failed", "error", err)
	}
}

// RefreshAll refreshes each target in turn. A target that is busy with another
// operation is skipped; other failures are combined.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	var errs error
	for _, t := range r.targets {
		start := time.Now()
		err := t.Refresh(ctx)
		switch {
		case err == nil:
			zap.S().Debugw("refreshed", "kind", t.Kind(), "latency_ms", time.Since(start).Milliseconds())
		case errors.Is(err, apperrors.ErrBusy):
			zap.S().Debugw("refresh_skipped_busy", "kind", t.Kind())
		default:
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
