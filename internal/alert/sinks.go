package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"solana-swap-watch/internal/domain"
	"solana-swap-watch/internal/observability"
	"solana-swap-watch/internal/storage"
)

// LogSink writes alerts to the log. Used in dry-run mode.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a log-based sink.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Name implements Sink.
func (s *LogSink) Name() string { return "log" }

// Send implements Sink.
func (s *LogSink) Send(_ context.Context, a Alert) error {
	s.logger.Info().
		Str("alert_id", a.ID).
		Str("kind", a.Kind.String()).
		Str("token", a.TokenID).
		Msg(a.Text)
	return nil
}

// Fanout delivers every alert to all of its sinks.
// A failing sink does not stop delivery to the others.
type Fanout struct {
	sinks []Sink
}

// NewFanout creates a fan-out over sinks.
func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

// Name implements Sink.
func (f *Fanout) Name() string { return "fanout" }

// Send implements Sink. Returns all sink errors joined.
func (f *Fanout) Send(ctx context.Context, a Alert) error {
	var errs []error
	for _, s := range f.sinks {
		start := time.Now()
		err := s.Send(ctx, a)
		observability.RecordDelivery(s.Name(), time.Since(start).Seconds(), err)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// journalTimeout bounds a single journal write.
const journalTimeout = 5 * time.Second

// JournalSink records every delivery attempt of the wrapped sink.
type JournalSink struct {
	next    Sink
	journal storage.AlertJournal
	logger  zerolog.Logger
}

// NewJournalSink wraps next so its deliveries are journaled.
func NewJournalSink(next Sink, journal storage.AlertJournal, logger zerolog.Logger) *JournalSink {
	return &JournalSink{next: next, journal: journal, logger: logger}
}

// Name implements Sink.
func (j *JournalSink) Name() string { return j.next.Name() }

// Send implements Sink. Journal failures are logged, never returned.
func (j *JournalSink) Send(ctx context.Context, a Alert) error {
	sendErr := j.next.Send(ctx, a)

	rec := &domain.AlertRecord{
		AlertID:   a.ID,
		Kind:      a.Kind,
		TokenID:   a.TokenID,
		Text:      a.Text,
		Sink:      j.next.Name(),
		Delivered: sendErr == nil,
		CreatedAt: a.CreatedAt,
		SentAt:    time.Now().UnixMilli(),
	}
	if sendErr != nil {
		rec.Error = sendErr.Error()
	}

	// The journal write must survive the delivery deadline.
	jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	if err := j.journal.Append(jctx, rec); err != nil {
		j.logger.Warn().Err(err).Str("alert_id", a.ID).Msg("journal append failed")
	}

	return sendErr
}

var (
	_ Sink = (*LogSink)(nil)
	_ Sink = (*Fanout)(nil)
	_ Sink = (*JournalSink)(nil)
)
