// Package service wires the form, the suggestion fetcher, the recommendation orchestrator
// and the location provider into one interactive session.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/nearpharma/internal/form"
	"github.com/UnknownOlympus/nearpharma/internal/geolocation"
	"github.com/UnknownOlympus/nearpharma/internal/metrics"
	"github.com/UnknownOlympus/nearpharma/internal/models"
	"github.com/UnknownOlympus/nearpharma/internal/notify"
	"github.com/UnknownOlympus/nearpharma/internal/recommend"
	"github.com/UnknownOlympus/nearpharma/internal/suggest"
	"github.com/UnknownOlympus/nearpharma/internal/view"
)

// MsgLocationUnavailable is shown when the position could not be acquired.
const MsgLocationUnavailable = "Location is unavailable"

var (
	// ErrLocatePending is returned when a location request is already running.
	ErrLocatePending = errors.New("location request already pending")
	// ErrNoSuggestion is returned when a suggestion index is out of range.
	ErrNoSuggestion = errors.New("no such suggestion")
)

// Backend is the pharmacy API used by the session.
type Backend interface {
	suggest.Searcher
	recommend.Predictor
}

// Options tune the suggestion fetcher.
type Options struct {
	DebounceDelay  time.Duration
	MinQueryLength int
}

// Session owns one form, one fetcher, one orchestrator, one location provider and the map
// center. The view is rebuilt and rendered after every change of any of them.
type Session struct {
	log          *slog.Logger
	form         *form.Model
	fetcher      *suggest.Fetcher
	orchestrator *recommend.Orchestrator
	locator      geolocation.Provider
	notifier     notify.Notifier
	renderer     view.Renderer
	metrics      *metrics.Metrics

	mu          sync.Mutex
	center      models.Origin
	locateState models.Lifecycle

	renderMu sync.Mutex
	last     view.View
}

// NewSession creates a session. Suggestion lookups are bound to ctx.
func NewSession(
	ctx context.Context,
	log *slog.Logger,
	api Backend,
	locator geolocation.Provider,
	notifier notify.Notifier,
	renderer view.Renderer,
	metrics *metrics.Metrics,
	opts Options,
) *Session {
	model := form.New()

	s := &Session{
		log:          log,
		form:         model,
		fetcher:      suggest.NewFetcher(ctx, log, api, notifier, metrics, opts.DebounceDelay, opts.MinQueryLength),
		orchestrator: recommend.NewOrchestrator(log, api, model, notifier, metrics),
		locator:      locator,
		notifier:     notifier,
		renderer:     renderer,
		metrics:      metrics,
	}

	s.form.Subscribe(func(form.Snapshot) { s.render() })
	s.fetcher.OnSuggestions(func([]models.MedicineSuggestion) { s.render() })
	s.fetcher.OnLifecycle(func(models.Lifecycle) { s.render() })
	s.orchestrator.OnResults(func([]models.StoreMatch) { s.render() })
	s.orchestrator.OnLifecycle(func(models.Lifecycle) { s.render() })

	return s
}

// Form exposes the form model.
func (s *Session) Form() *form.Model {
	return s.form
}

// View returns the most recently rendered view.
func (s *Session) View() view.View {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	return s.last
}

// Refresh rebuilds and renders the view.
func (s *Session) Refresh() view.View {
	return s.render()
}

// QueryChanged forwards a change of the medicine search text to the fetcher.
func (s *Session) QueryChanged(text string) {
	s.fetcher.OnQueryChanged(text)
}

// Pick selects the suggestion at idx (zero based) of the current list.
func (s *Session) Pick(idx int) (models.MedicineSuggestion, error) {
	suggestions := s.fetcher.Suggestions()
	if idx < 0 || idx >= len(suggestions) {
		return models.MedicineSuggestion{}, fmt.Errorf("%w: %d", ErrNoSuggestion, idx+1)
	}

	s.form.SelectSuggestion(suggestions[idx])

	return suggestions[idx], nil
}

// Submit requests recommendations for the current form.
func (s *Session) Submit(ctx context.Context) error {
	return s.orchestrator.Submit(ctx)
}

// LocateLifecycle returns the state of the latest location request.
func (s *Session) LocateLifecycle() models.Lifecycle {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.locateState
}

// AcquireLocation asks the provider for the current position once. On success the
// position becomes both the form origin and the map center; on failure the user is
// notified and the previous origin is kept.
func (s *Session) AcquireLocation(ctx context.Context) error {
	s.mu.Lock()
	if s.locateState == models.Pending {
		s.mu.Unlock()
		return ErrLocatePending
	}
	s.locateState = models.Pending
	s.mu.Unlock()
	s.render()

	startTime := time.Now()
	coords, err := s.locator.Locate(ctx)
	s.metrics.RequestSeconds.WithLabelValues(metrics.EndpointLocate).Observe(time.Since(startTime).Seconds())

	if err == nil {
		err = s.form.SetOrigin(*coords)
	}

	if err != nil {
		s.mu.Lock()
		s.locateState = models.Failed
		s.mu.Unlock()

		s.metrics.Requests.WithLabelValues(metrics.EndpointLocate, "failure").Inc()
		s.log.ErrorContext(ctx, "Failed to acquire location", "error", err)
		s.notifier.Notify(MsgLocationUnavailable, notify.Error)
		s.render()

		return fmt.Errorf("failed to acquire location: %w", err)
	}

	s.mu.Lock()
	s.locateState = models.Succeeded
	s.center = models.NewOrigin(*coords)
	s.mu.Unlock()

	s.metrics.Requests.WithLabelValues(metrics.EndpointLocate, "success").Inc()
	s.log.InfoContext(ctx, "Location acquired", "lat", coords.Latitude, "lon", coords.Longitude)
	s.render()

	return nil
}

// Close stops scheduled lookups and drops responses still in flight.
func (s *Session) Close() {
	s.fetcher.Close()
	s.orchestrator.Reset()
}

// render builds the view from the current state of every component. The center only moves
// when a location is acquired, typed coordinates move the path origin alone.
func (s *Session) render() view.View {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	snap := s.form.Snapshot()

	s.mu.Lock()
	center := s.center
	locating := s.locateState == models.Pending
	s.mu.Unlock()

	s.last = view.Build(view.State{
		Center:      center,
		Form:        snap,
		Matches:     s.orchestrator.Results(),
		Suggestions: s.fetcher.Suggestions(),
		Searching:   s.fetcher.Loading(),
		Busy:        s.orchestrator.Lifecycle() == models.Pending,
		Locating:    locating,
	})
	s.renderer.Render(s.last)

	return s.last
}
