package bookingsvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/sanohind/vecos-backend/model"
	"github.com/sanohind/vecos-backend/util/clock"
)

// SweepStore is the slice of the booking repository the reaper needs.
type SweepStore interface {
	ListExpiredApproved(ctx context.Context, cutoff time.Time) ([]model.Booking, error)
	CompleteIfApproved(ctx context.Context, id int64) (bool, error)
}

type SweepResult struct {
	UpdatedCount int     `json:"updated_count"`
	FailedIDs    []int64 `json:"failed_ids"`
}

type ReaperConfig struct {
	PollInterval time.Duration // default 15m
	HoursBuffer  int           // grace period subtracted from now
	MaxRuntime   time.Duration // 0 = run until cancelled
	ErrBackoff   time.Duration // default 30s
}

// Reaper periodically moves approved bookings whose end time has passed the
// cutoff to completed. One instance per deployment; the status write is
// guarded on status, so overlapping or repeated sweeps do redundant reads but
// never corrupt state.
type Reaper struct {
	store SweepStore
	clk   clock.Clock
	log   *slog.Logger
	cfg   ReaperConfig
}

func NewReaper(store SweepStore, clk clock.Clock, log *slog.Logger, cfg ReaperConfig) *Reaper {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Minute
	}
	if cfg.ErrBackoff <= 0 {
		cfg.ErrBackoff = 30 * time.Second
	}
	return &Reaper{store: store, clk: clk, log: log, cfg: cfg}
}

// Cutoff is now minus the configured grace buffer.
func (r *Reaper) Cutoff() time.Time {
	return r.clk.Now().Add(-time.Duration(r.cfg.HoursBuffer) * time.Hour)
}

// Preview lists the bookings a sweep with this cutoff would complete, without
// writing anything.
func (r *Reaper) Preview(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
	return r.store.ListExpiredApproved(ctx, cutoff)
}

// Sweep completes every approved booking overdue at the cutoff. Each booking
// is handled independently; one failure never aborts the batch. Re-running
// with the same cutoff updates nothing further.
func (r *Reaper) Sweep(ctx context.Context, cutoff time.Time) (SweepResult, error) {
	expired, err := r.store.ListExpiredApproved(ctx, cutoff)
	if err != nil {
		return SweepResult{}, err
	}

	var res SweepResult
	for _, b := range expired {
		if !ShouldComplete(b, cutoff) {
			continue
		}
		done, err := r.store.CompleteIfApproved(ctx, b.ID)
		if err != nil {
			res.FailedIDs = append(res.FailedIDs, b.ID)
			r.log.Error("booking auto-complete failed", "booking_id", b.ID, "err", err)
			continue
		}
		if done {
			res.UpdatedCount++
			r.log.Info("booking auto-completed",
				"booking_id", b.ID,
				"user_id", b.UserID,
				"vehicle_id", b.VehicleID,
				"end_time", b.EndTime,
			)
		}
	}
	if res.UpdatedCount > 0 || len(res.FailedIDs) > 0 {
		r.log.Info("sweep summary", "updated", res.UpdatedCount, "failed", len(res.FailedIDs))
	}
	return res, nil
}

// Run executes sweeps until ctx is cancelled or MaxRuntime elapses. A failed
// cycle is logged and retried after ErrBackoff; it never stops the loop. The
// wait is interruptible, so shutdown is prompt even mid-interval.
func (r *Reaper) Run(ctx context.Context) {
	start := r.clk.Now()
	r.log.Info("booking worker started",
		"poll_interval", r.cfg.PollInterval,
		"hours_buffer", r.cfg.HoursBuffer,
		"max_runtime", r.cfg.MaxRuntime,
	)

	for {
		if r.cfg.MaxRuntime > 0 && r.clk.Now().Sub(start) >= r.cfg.MaxRuntime {
			r.log.Info("booking worker stopped: max runtime reached")
			return
		}

		wait := r.cfg.PollInterval
		if _, err := r.Sweep(ctx, r.Cutoff()); err != nil {
			if ctx.Err() != nil {
				r.log.Info("booking worker stopped")
				return
			}
			r.log.Error("sweep cycle failed", "err", err)
			wait = r.cfg.ErrBackoff
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.log.Info("booking worker stopped")
			return
		case <-timer.C:
		}
	}
}
