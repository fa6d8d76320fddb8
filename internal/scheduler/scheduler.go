// Package scheduler arms one-shot deletion timers. A timer is arm-once with
// no cancellation handle: it runs to completion or fails silently, and the
// delay captured at arming time is never re-read from configuration.
package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"tg-autodelete/internal/crash"
	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/metrics"
	"tg-autodelete/internal/timer"
)

// ErrMessageGone marks the permanent deletion-failure class: the message is
// already gone or can no longer be deleted. Benign, never retried.
var ErrMessageGone = errors.New("message already gone or not deletable")

// Deleter is the external platform action invoked at timer expiry.
// Implementations wrap permanent platform failures with ErrMessageGone.
type Deleter interface {
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// Scheduler owns pending deletions for their lifetime. Each media message
// gets its own independent timer; entries are never merged or deduplicated.
type Scheduler struct {
	deleter Deleter
	timeout time.Duration
	pending atomic.Int64
}

func New(deleter Deleter) *Scheduler {
	return &Scheduler{
		deleter: deleter,
		timeout: 30 * time.Second,
	}
}

// Schedule arms a one-shot deletion timer for a message. Off delays do
// nothing. Zero delays are suppressed rather than executed immediately so a
// message still being composed or edited is not yanked out from under its
// author.
func (s *Scheduler) Schedule(chatID int64, messageID int, delay timer.Delay) {
	if delay.Off {
		return
	}
	if delay.Millis <= 0 {
		logger.Infof("Suppressing zero-delay deletion for message %d in chat %d (source: %s)",
			messageID, chatID, delay.Source)
		metrics.ZeroDelaySuppressed.Inc()
		return
	}

	logger.Debugf("Arming deletion of message %d in chat %d after %s (source: %s)",
		messageID, chatID, timer.FormatDuration(delay.Millis), delay.Source)
	s.pending.Add(1)
	metrics.DeletionsScheduled.Inc()
	metrics.PendingDeletions.Inc()

	time.AfterFunc(time.Duration(delay.Millis)*time.Millisecond, func() {
		defer crash.RecoverWithStack("scheduler-fire")
		defer s.pending.Add(-1)
		defer metrics.PendingDeletions.Dec()
		s.fire(chatID, messageID)
	})
}

// fire invokes the deletion action once and classifies the outcome. There is
// no retry on any path: permanent failures are not transient, and transient
// failures fall under the at-most-one-attempt policy.
func (s *Scheduler) fire(chatID int64, messageID int) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.deleter.DeleteMessage(ctx, chatID, messageID)
	switch {
	case err == nil:
		logger.Debugf("Deleted message %d in chat %d", messageID, chatID)
		metrics.DeletionsTotal.WithLabelValues(metrics.OutcomeDeleted).Inc()
	case errors.Is(err, ErrMessageGone):
		logger.Debugf("Message %d in chat %d already gone: %v", messageID, chatID, err)
		metrics.DeletionsTotal.WithLabelValues(metrics.OutcomeGone).Inc()
	default:
		logger.Warningf("Error deleting message %d in chat %d: %v", messageID, chatID, err)
		metrics.DeletionsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
	}
}

// Pending returns the number of currently armed timers.
func (s *Scheduler) Pending() int64 {
	return s.pending.Load()
}
