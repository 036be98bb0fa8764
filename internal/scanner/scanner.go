package scanner

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"mailsched/internal/logger"
	"mailsched/internal/metrics"
	"mailsched/internal/model"
	"mailsched/internal/notifier"
	"mailsched/internal/store"
)

// Store is the slice of the schedule store the scanner needs.
type Store interface {
	DueUnsent(now time.Time) []model.Schedule
	MarkSent(id string, sentAt time.Time) error
	Stats() store.Stats
}

// Scanner drives delivery: once per interval it snapshots the due,
// unsent schedules and hands each one to the notifier, recording the
// outcome. A failed attempt leaves the item pending, so the next tick
// retries it; the dispatch-key guard keeps a slow-but-successful
// attempt from being doubled by a later tick.
type Scanner struct {
	Interval time.Duration
	Subject  string
	// Retention bounds the attempted-key set: keys of completed
	// attempts are swept after this window, at which point the sent
	// status is the guard of record.
	Retention time.Duration

	st     Store
	notify notifier.Notifier
	log    *zap.Logger

	tickMu sync.Mutex // merges overlapping ticks

	mu        sync.Mutex
	attempted map[string]time.Time // dispatch key -> first recorded
}

func New(st Store, n notifier.Notifier, interval time.Duration, subject string, retention time.Duration) *Scanner {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if subject == "" {
		subject = "Scheduled message"
	}
	if retention <= 0 {
		retention = 10 * interval
	}
	return &Scanner{
		Interval:  interval,
		Subject:   subject,
		Retention: retention,
		st:        st,
		notify:    n,
		log:       logger.L(),
		attempted: make(map[string]time.Time),
	}
}

// Run blocks until ctx is cancelled. The ticker fires independently of
// any single tick's completion; a fire that overlaps a still-running
// tick is merged away inside ScanOnce.
func (s *Scanner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.log.Info("scanner started",
		zap.Duration("interval", s.Interval),
		zap.Bool("notifier_configured", s.notify.Configured()),
	)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scanner stopped")
			return nil
		case now := <-ticker.C:
			go s.ScanOnce(ctx, now)
		}
	}
}

// ScanOnce executes a single tick against the given notion of now.
// Each item's attempt is isolated; one failure never aborts the rest
// of the due set.
func (s *Scanner) ScanOnce(ctx context.Context, now time.Time) {
	if !s.tickMu.TryLock() {
		return // previous tick still running
	}
	defer s.tickMu.Unlock()

	s.sweepAttempted(now)

	due := s.st.DueUnsent(now)
	for _, item := range due {
		if ctx.Err() != nil {
			return
		}
		s.dispatchOne(ctx, item, now)
	}

	metrics.PendingGauge.Set(float64(s.st.Stats().Pending))
}

func (s *Scanner) dispatchOne(ctx context.Context, item model.Schedule, now time.Time) {
	key := item.DispatchKey()
	if !s.beginAttempt(key, now) {
		// Same logical message already attempted and not yet aged
		// out (slow attempt in flight, or a duplicate record in the
		// same tick).
		metrics.DeliveriesTotal.WithLabelValues("skipped_dup").Inc()
		return
	}

	if err := s.notify.Send(ctx, item.Recipient, s.Subject, item.Payload); err != nil {
		// Item stays pending and the key is released, so the next
		// tick retries naturally.
		s.releaseAttempt(key)
		metrics.DeliveriesTotal.WithLabelValues("failed").Inc()
		s.log.Warn("delivery failed",
			zap.String("id", item.ID),
			zap.String("recipient", item.Recipient),
			zap.Error(err),
		)
		return
	}

	metrics.DeliveriesTotal.WithLabelValues("sent").Inc()

	switch err := s.st.MarkSent(item.ID, now); {
	case err == nil:
		metrics.SchedulesTotal.WithLabelValues("sent").Inc()
		s.log.Info("schedule dispatched",
			zap.String("id", item.ID),
			zap.String("recipient", item.Recipient),
		)
	case errors.Is(err, store.ErrAlreadySent):
		// Another path completed the transition first; nothing to do.
		s.log.Debug("already sent", zap.String("id", item.ID))
	case errors.Is(err, store.ErrNotFound):
		// Deleted while the attempt was in flight; nothing to update.
		s.log.Debug("deleted during dispatch", zap.String("id", item.ID))
	default:
		s.log.Error("mark sent failed", zap.String("id", item.ID), zap.Error(err))
	}
}

// beginAttempt records key as in flight. Returns false when the key is
// already held.
func (s *Scanner) beginAttempt(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attempted[key]; ok {
		return false
	}
	s.attempted[key] = now
	return true
}

func (s *Scanner) releaseAttempt(key string) {
	s.mu.Lock()
	delete(s.attempted, key)
	s.mu.Unlock()
}

// sweepAttempted drops keys older than Retention so the set stays
// bounded on long-running deployments.
func (s *Scanner) sweepAttempted(now time.Time) {
	cutoff := now.Add(-s.Retention)
	s.mu.Lock()
	for key, at := range s.attempted {
		if at.Before(cutoff) {
			delete(s.attempted, key)
		}
	}
	s.mu.Unlock()
}
