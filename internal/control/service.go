// Package control exposes the operations the operator control surface
// performs on the watch list and settings.
package control

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"solana-swap-watch/internal/domain"
	"solana-swap-watch/internal/observability"
	"solana-swap-watch/internal/settings"
	"solana-swap-watch/internal/storage"
	"solana-swap-watch/internal/watch"
)

// SettingView is a setting with its current value, for display.
type SettingView struct {
	settings.Spec
	Value float64
}

// Options configures optional collaborators of a Service.
type Options struct {
	Journal      storage.AlertJournal         // backs RecentAlerts
	Observations storage.SwapObservationStore // backs TokenStats
	Logger       zerolog.Logger
}

// Service performs control operations. Every method is a single
// registry or settings operation and returns the resulting state.
type Service struct {
	registry     *watch.Registry
	settings     *settings.Store
	journal      storage.AlertJournal
	observations storage.SwapObservationStore
	logger       zerolog.Logger
}

// NewService creates a control service.
func NewService(registry *watch.Registry, store *settings.Store, opts Options) *Service {
	s := &Service{
		registry:     registry,
		settings:     store,
		journal:      opts.Journal,
		observations: opts.Observations,
		logger:       opts.Logger,
	}
	s.updateGauges()
	return s
}

// ListTokens returns the watch list in insertion order.
func (s *Service) ListTokens() []domain.WatchEntry {
	return s.registry.List()
}

// AddToken watches tokenID, re-enabling it if already present.
func (s *Service) AddToken(tokenID string) (domain.WatchEntry, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		s.done("add", ErrEmptyToken)
		return domain.WatchEntry{}, ErrEmptyToken
	}

	s.registry.Add(tokenID)
	s.logger.Info().Str("token", tokenID).Msg("token added")
	s.done("add", nil)
	return domain.WatchEntry{TokenID: tokenID, Active: true}, nil
}

// RemoveToken stops watching tokenID.
func (s *Service) RemoveToken(tokenID string) error {
	tokenID = strings.TrimSpace(tokenID)
	if !s.registry.Remove(tokenID) {
		s.done("remove", ErrUnknownToken)
		return ErrUnknownToken
	}
	s.logger.Info().Str("token", tokenID).Msg("token removed")
	s.done("remove", nil)
	return nil
}

// ToggleToken flips tokenID and returns its new state.
func (s *Service) ToggleToken(tokenID string) (bool, error) {
	active, ok := s.registry.Toggle(tokenID)
	if !ok {
		s.done("toggle", ErrUnknownToken)
		return false, ErrUnknownToken
	}
	s.logger.Info().Str("token", tokenID).Bool("active", active).Msg("token toggled")
	s.done("toggle", nil)
	return active, nil
}

// PauseAll deactivates every token and returns the watch list.
func (s *Service) PauseAll() []domain.WatchEntry {
	s.registry.PauseAll()
	s.logger.Info().Msg("all tokens paused")
	s.done("pause_all", nil)
	return s.registry.List()
}

// ResumeAll activates every token and returns the watch list.
func (s *Service) ResumeAll() []domain.WatchEntry {
	s.registry.ResumeAll()
	s.logger.Info().Msg("all tokens resumed")
	s.done("resume_all", nil)
	return s.registry.List()
}

// Reset empties the watch list.
func (s *Service) Reset() {
	s.registry.Reset()
	s.logger.Info().Msg("watch list reset")
	s.done("reset", nil)
}

// Settings returns every setting in display order with its current value.
func (s *Service) Settings() []SettingView {
	snap := s.settings.Snapshot()
	specs := settings.Specs()

	views := make([]SettingView, 0, len(specs))
	for _, spec := range specs {
		views = append(views, SettingView{Spec: spec, Value: snap.Get(spec.Name)})
	}
	return views
}

// EditSetting parses raw as the new value of the named setting.
// Returns ErrUnknownSetting or a *settings.ParseError; on error the
// previous value is kept.
func (s *Service) EditSetting(name, raw string) (SettingView, error) {
	spec, ok := settings.Lookup(name)
	if !ok {
		observability.RecordSettingUpdate("unknown", "error")
		return SettingView{}, fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}

	v, err := s.settings.Set(spec.Name, raw)
	if err != nil {
		observability.RecordSettingUpdate(string(spec.Name), "error")
		return SettingView{Spec: spec, Value: s.settings.Get(spec.Name)}, err
	}

	observability.RecordSettingUpdate(string(spec.Name), "ok")
	s.logger.Info().Str("setting", string(spec.Name)).Float64("value", v).Msg("setting updated")
	return SettingView{Spec: spec, Value: v}, nil
}

// RecentAlerts returns up to limit journaled alerts, newest first.
func (s *Service) RecentAlerts(ctx context.Context, limit int) ([]*domain.AlertRecord, error) {
	if s.journal == nil {
		return nil, ErrUnavailable
	}
	recs, err := s.journal.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent alerts: %w", err)
	}
	return recs, nil
}

// TokenStats returns the observation summary for tokenID.
// A token never observed yields a zero summary.
func (s *Service) TokenStats(ctx context.Context, tokenID string) (*domain.TokenSummary, error) {
	if s.observations == nil {
		return nil, ErrUnavailable
	}

	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return nil, ErrEmptyToken
	}

	sums, err := s.observations.SummaryByToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("token stats: %w", err)
	}
	for _, sum := range sums {
		if sum.TokenID == tokenID {
			return sum, nil
		}
	}
	return &domain.TokenSummary{TokenID: tokenID}, nil
}

func (s *Service) done(op string, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrUnknownToken):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	observability.RecordControlOperation(op, result)
	s.updateGauges()
}

func (s *Service) updateGauges() {
	observability.UpdateWatchedTokens(s.registry.Len(), len(s.registry.ActiveTokens()))
}
