// Package suggest turns keystrokes into debounced medicine lookups.
package suggest

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/nearpharma/internal/backend"
	"github.com/UnknownOlympus/nearpharma/internal/metrics"
	"github.com/UnknownOlympus/nearpharma/internal/models"
	"github.com/UnknownOlympus/nearpharma/internal/notify"
)

// Notification texts shown on failed lookups.
const (
	MsgFetchFailed = "Failed to fetch medicines"
	MsgFetchError  = "Error fetching medicines"
)

// Searcher looks up medicines by name.
type Searcher interface {
	SearchMedicines(ctx context.Context, name string) ([]models.MedicineSuggestion, error)
}

// Fetcher debounces query changes into at most one scheduled lookup per quiet period
// and keeps the suggestion list of the latest issued lookup.
type Fetcher struct {
	ctx      context.Context
	log      *slog.Logger
	searcher Searcher
	notifier notify.Notifier
	metrics  *metrics.Metrics
	delay    time.Duration
	minQuery int

	deliver     sync.Mutex // serialises settlements
	mu          sync.Mutex
	timer       *time.Timer
	generation  uint64 // bumped on every query change, invalidates scheduled lookups
	seq         uint64 // latest issued request
	inFlight    int
	state       models.Lifecycle
	suggestions []models.MedicineSuggestion
	observers   []func([]models.MedicineSuggestion)
	watchers    []func(models.Lifecycle)
	closed      bool
}

// NewFetcher creates a Fetcher. Requests are bound to ctx; minQuery of zero sends every
// query, the empty one included.
func NewFetcher(
	ctx context.Context,
	log *slog.Logger,
	searcher Searcher,
	notifier notify.Notifier,
	metrics *metrics.Metrics,
	delay time.Duration,
	minQuery int,
) *Fetcher {
	return &Fetcher{
		ctx:      ctx,
		log:      log,
		searcher: searcher,
		notifier: notifier,
		metrics:  metrics,
		delay:    delay,
		minQuery: minQuery,
	}
}

// OnSuggestions registers fn to receive every replacement of the suggestion list.
func (f *Fetcher) OnSuggestions(fn func([]models.MedicineSuggestion)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.observers = append(f.observers, fn)
}

// OnLifecycle registers fn to receive every lifecycle transition of the lookup channel.
func (f *Fetcher) OnLifecycle(fn func(models.Lifecycle)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.watchers = append(f.watchers, fn)
}

// OnQueryChanged schedules a lookup for text after the quiet period. A lookup that
// is still scheduled is cancelled; one that was already sent is not.
func (f *Fetcher) OnQueryChanged(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	f.generation++
	gen := f.generation

	if f.timer != nil {
		f.timer.Stop()
	}

	f.timer = time.AfterFunc(f.delay, func() {
		f.fire(gen, text)
	})
}

// Close stops any scheduled lookup. Responses of lookups already sent are dropped.
func (f *Fetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.generation++
	f.seq++
	if f.timer != nil {
		f.timer.Stop()
	}
}

// Suggestions returns a copy of the current suggestion list.
func (f *Fetcher) Suggestions() []models.MedicineSuggestion {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.MedicineSuggestion, len(f.suggestions))
	copy(out, f.suggestions)

	return out
}

// Loading reports whether a lookup is in flight.
func (f *Fetcher) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.inFlight > 0
}

// Lifecycle returns the state of the latest issued lookup.
func (f *Fetcher) Lifecycle() models.Lifecycle {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}

func (f *Fetcher) fire(gen uint64, text string) {
	f.mu.Lock()
	if gen != f.generation || f.closed {
		f.mu.Unlock()
		return
	}

	f.seq++
	seq := f.seq

	if len([]rune(text)) < f.minQuery {
		f.state = models.Idle
		f.mu.Unlock()
		f.log.DebugContext(f.ctx, "Query below minimal length, clearing suggestions", "query", text)
		f.settle(seq, text, nil, backend.ErrNoMatches)
		return
	}

	f.inFlight++
	f.state = models.Pending
	watchers := append([]func(models.Lifecycle){}, f.watchers...)
	f.mu.Unlock()

	for _, fn := range watchers {
		fn(models.Pending)
	}

	f.metrics.InFlightRequests.Inc()
	f.log.DebugContext(f.ctx, "Searching medicines", "query", text, "seq", seq)

	startTime := time.Now()
	suggestions, err := f.searcher.SearchMedicines(f.ctx, text)
	f.metrics.RequestSeconds.WithLabelValues(metrics.EndpointSearch).Observe(time.Since(startTime).Seconds())
	f.metrics.InFlightRequests.Dec()

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	f.settle(seq, text, suggestions, err)
}

// settle applies the outcome of request seq unless a newer request was issued since.
// Settlements are serialised so observers never see an older list after a newer one.
func (f *Fetcher) settle(seq uint64, text string, suggestions []models.MedicineSuggestion, err error) {
	f.deliver.Lock()
	defer f.deliver.Unlock()

	f.mu.Lock()
	if seq != f.seq {
		f.mu.Unlock()
		f.metrics.StaleResponses.WithLabelValues(metrics.ChannelSuggest).Inc()
		f.log.DebugContext(f.ctx, "Discarding stale suggestions", "query", text, "seq", seq)
		return
	}

	var statusErr *backend.StatusError
	changed := true
	switch {
	case err == nil:
		f.state = models.Succeeded
		f.metrics.Requests.WithLabelValues(metrics.EndpointSearch, "success").Inc()
	case errors.Is(err, backend.ErrNoMatches):
		if f.state != models.Idle {
			f.state = models.Succeeded
			f.metrics.Requests.WithLabelValues(metrics.EndpointSearch, "no_matches").Inc()
		}
		suggestions = nil
	default:
		f.state = models.Failed
		f.metrics.Requests.WithLabelValues(metrics.EndpointSearch, "failure").Inc()
		changed = false
	}

	state := f.state
	watchers := append([]func(models.Lifecycle){}, f.watchers...)
	var observers []func([]models.MedicineSuggestion)
	var snapshot []models.MedicineSuggestion
	if changed {
		f.suggestions = suggestions
		observers = append(observers, f.observers...)
		snapshot = make([]models.MedicineSuggestion, len(suggestions))
		copy(snapshot, suggestions)
	}
	f.mu.Unlock()

	switch {
	case changed:
		for _, fn := range observers {
			fn(snapshot)
		}
	case errors.As(err, &statusErr):
		f.log.ErrorContext(f.ctx, "Medicine search failed", "query", text, "status", statusErr.Code)
		f.notifier.Notify(MsgFetchFailed, notify.Error)
	default:
		f.log.ErrorContext(f.ctx, "Error fetching medicines", "query", text, "error", err)
		f.notifier.Notify(MsgFetchError, notify.Error)
	}

	for _, fn := range watchers {
		fn(state)
	}
}
