// Package recommend submits the form to the recommendation service and keeps the latest result set.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/nearpharma/internal/backend"
	"github.com/UnknownOlympus/nearpharma/internal/form"
	"github.com/UnknownOlympus/nearpharma/internal/metrics"
	"github.com/UnknownOlympus/nearpharma/internal/models"
	"github.com/UnknownOlympus/nearpharma/internal/notify"
)

// Notification texts.
const (
	MsgIncomplete = "All fields are required to be filled"
	MsgPending    = "A recommendation request is already in progress"
	MsgSucceeded  = "Results are fetched successfully..."
	MsgFailed     = "Failed to fetch recommendations"
)

var (
	// ErrSubmitPending is returned when Submit is called while a request is in flight.
	ErrSubmitPending = errors.New("recommendation request already pending")
	// ErrSuperseded is returned when the response arrived after Reset.
	ErrSuperseded = errors.New("recommendation request superseded")
)

// Predictor asks the backend for matching stores.
type Predictor interface {
	Predict(ctx context.Context, form backend.PredictRequest) ([]models.StoreMatch, error)
}

// Source provides the form fields to submit.
type Source interface {
	Snapshot() form.Snapshot
}

// Orchestrator runs one recommendation request at a time and owns its lifecycle and result set.
type Orchestrator struct {
	log       *slog.Logger
	predictor Predictor
	source    Source
	notifier  notify.Notifier
	metrics   *metrics.Metrics

	deliver   sync.Mutex // serialises settlements
	mu        sync.Mutex
	seq       uint64
	state     models.Lifecycle
	results   []models.StoreMatch
	observers []func([]models.StoreMatch)
	watchers  []func(models.Lifecycle)
}

// NewOrchestrator creates an Orchestrator reading its input from source.
func NewOrchestrator(
	log *slog.Logger,
	predictor Predictor,
	source Source,
	notifier notify.Notifier,
	metrics *metrics.Metrics,
) *Orchestrator {
	return &Orchestrator{
		log:       log,
		predictor: predictor,
		source:    source,
		notifier:  notifier,
		metrics:   metrics,
	}
}

// OnResults registers fn to receive each committed result set.
func (o *Orchestrator) OnResults(fn func([]models.StoreMatch)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.observers = append(o.observers, fn)
}

// OnLifecycle registers fn to receive every lifecycle transition.
func (o *Orchestrator) OnLifecycle(fn func(models.Lifecycle)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.watchers = append(o.watchers, fn)
}

// Results returns a copy of the latest committed result set.
func (o *Orchestrator) Results() []models.StoreMatch {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]models.StoreMatch, len(o.results))
	copy(out, o.results)

	return out
}

// Lifecycle returns the state of the latest request.
func (o *Orchestrator) Lifecycle() models.Lifecycle {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state
}

// Submit validates the form and, when it is complete, requests recommendations.
// It blocks until the request settles. Every failure is also reported to the notifier.
func (o *Orchestrator) Submit(ctx context.Context) error {
	snap := o.source.Snapshot()
	if err := snap.Validate(); err != nil {
		o.metrics.ValidationRejections.Inc()
		o.log.InfoContext(ctx, "Submission rejected, form is incomplete", "error", err)
		o.notifier.Notify(MsgIncomplete, notify.Error)

		return err
	}

	o.mu.Lock()
	if o.state == models.Pending {
		o.mu.Unlock()
		o.log.WarnContext(ctx, "Submission rejected, request already pending")
		o.notifier.Notify(MsgPending, notify.Error)

		return ErrSubmitPending
	}
	o.seq++
	seq := o.seq
	o.state = models.Pending
	watchers := append([]func(models.Lifecycle){}, o.watchers...)
	o.mu.Unlock()

	notifyWatchers(watchers, models.Pending)

	req := backend.NewPredictRequest(snap.Origin.Coordinates, snap.Quantity, snap.MedicineID)
	o.log.InfoContext(ctx, "Requesting recommendations",
		"medicine", snap.MedicineID, "quantity", snap.Quantity, "seq", seq)

	o.metrics.InFlightRequests.Inc()
	startTime := time.Now()
	matches, err := o.predictor.Predict(ctx, req)
	o.metrics.RequestSeconds.WithLabelValues(metrics.EndpointPredict).Observe(time.Since(startTime).Seconds())
	o.metrics.InFlightRequests.Dec()

	return o.settle(ctx, seq, matches, err)
}

// Reset clears the result set and supersedes any request in flight.
func (o *Orchestrator) Reset() {
	o.deliver.Lock()
	defer o.deliver.Unlock()

	o.mu.Lock()
	o.seq++
	o.state = models.Idle
	o.results = nil
	observers := append([]func([]models.StoreMatch){}, o.observers...)
	watchers := append([]func(models.Lifecycle){}, o.watchers...)
	o.mu.Unlock()

	for _, fn := range observers {
		fn(nil)
	}
	notifyWatchers(watchers, models.Idle)
}

func (o *Orchestrator) settle(ctx context.Context, seq uint64, matches []models.StoreMatch, err error) error {
	o.deliver.Lock()
	defer o.deliver.Unlock()

	o.mu.Lock()
	if seq != o.seq {
		o.mu.Unlock()
		o.metrics.StaleResponses.WithLabelValues(metrics.ChannelRecommend).Inc()
		o.log.DebugContext(ctx, "Discarding stale recommendations", "seq", seq)

		return ErrSuperseded
	}

	watchers := append([]func(models.Lifecycle){}, o.watchers...)

	if err != nil {
		o.state = models.Failed
		o.mu.Unlock()

		defer notifyWatchers(watchers, models.Failed)

		o.metrics.Requests.WithLabelValues(metrics.EndpointPredict, "failure").Inc()
		o.log.ErrorContext(ctx, "Error fetching recommendations", "error", err)
		o.notifier.Notify(MsgFailed, notify.Error)

		return fmt.Errorf("failed to fetch recommendations: %w", err)
	}

	o.state = models.Succeeded
	o.results = matches
	snapshot := make([]models.StoreMatch, len(matches))
	copy(snapshot, matches)
	observers := append([]func([]models.StoreMatch){}, o.observers...)
	o.mu.Unlock()

	defer notifyWatchers(watchers, models.Succeeded)

	o.metrics.Requests.WithLabelValues(metrics.EndpointPredict, "success").Inc()
	o.log.InfoContext(ctx, "Recommendations received", "matches", len(matches))

	for _, fn := range observers {
		fn(snapshot)
	}
	o.notifier.Notify(MsgSucceeded, notify.Success)

	return nil
}

func notifyWatchers(watchers []func(models.Lifecycle), state models.Lifecycle) {
	for _, fn := range watchers {
		fn(state)
	}
}
