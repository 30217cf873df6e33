// Package session owns the current date window and the aggregate table
// computed for it. Window changes can be applied immediately or requested
// repeatedly, in which case recomputation waits for the requests to settle.
package session

import (
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ademuri/listening-insights/internal/analysis"
	"github.com/ademuri/listening-insights/internal/history"
	"github.com/ademuri/listening-insights/internal/logging"
)

const DefaultDebounce = 200 * time.Millisecond

// WindowSaver persists each applied window.
type WindowSaver interface {
	SaveWindow(analysis.DateWindow) error
}

type Options struct {
	// Window is applied synchronously by New.
	Window analysis.DateWindow

	// Debounce is the quiet period RequestWindow waits for. Zero means
	// DefaultDebounce.
	Debounce time.Duration

	// Throttle, when positive, lets an intermediate recompute through at most
	// once per interval while requests keep arriving.
	Throttle time.Duration

	Saver    WindowSaver
	OnChange func(State)
	Logger   *zerolog.Logger
}

// State is one published window together with the aggregates computed for
// it. Generation increases with every publish.
type State struct {
	Window     analysis.DateWindow
	Aggregates []analysis.TrackAggregate
	Generation uint64
}

type Session struct {
	events []history.PlayEvent
	log    *history.Log
	opts   Options
	logger zerolog.Logger

	debounced func(f func())
	limiter   *rate.Limiter

	mu    sync.RWMutex
	state State

	// reqMu guards the request bookkeeping. It is always taken before mu.
	reqMu   sync.Mutex
	pending *analysis.DateWindow
	seq     uint64
	closed  bool

	notifyMu     sync.Mutex
	lastNotified uint64
}

func New(log *history.Log, opts Options) *Session {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := logging.Component("session")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	s := &Session{
		events:    log.Events(),
		log:       log,
		opts:      opts,
		logger:    logger,
		debounced: debounce.New(opts.Debounce),
	}
	if opts.Throttle > 0 {
		s.limiter = rate.NewLimiter(rate.Every(opts.Throttle), 1)
	}

	s.state = State{
		Window:     opts.Window,
		Aggregates: analysis.Aggregate(s.events, opts.Window),
	}
	return s
}

// State returns the latest published snapshot.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetWindow recomputes for w immediately and publishes the result. Pending
// requests are dropped.
func (s *Session) SetWindow(w analysis.DateWindow) State {
	s.reqMu.Lock()
	if s.closed {
		s.reqMu.Unlock()
		return s.State()
	}
	s.pending = nil
	s.seq++
	seq := s.seq
	s.reqMu.Unlock()

	s.apply(w, seq)
	return s.State()
}

// RequestWindow records w as the wanted window and schedules a recompute once
// requests stop arriving. Only the last requested window is computed.
func (s *Session) RequestWindow(w analysis.DateWindow) {
	s.reqMu.Lock()
	if s.closed {
		s.reqMu.Unlock()
		return
	}
	s.pending = &w
	s.seq++
	s.reqMu.Unlock()

	if s.limiter != nil && s.limiter.Allow() {
		go s.flush()
	}
	s.debounced(s.flush)
}

// Close drops any pending request. Later requests are ignored and in-flight
// recomputes are not published.
func (s *Session) Close() {
	s.reqMu.Lock()
	defer s.reqMu.Unlock()
	s.closed = true
	s.pending = nil
}

func (s *Session) flush() {
	s.reqMu.Lock()
	if s.closed || s.pending == nil {
		s.reqMu.Unlock()
		return
	}
	w := *s.pending
	seq := s.seq
	s.reqMu.Unlock()

	s.apply(w, seq)
}

// apply computes aggregates for w and publishes them unless another window
// was requested while computing.
func (s *Session) apply(w analysis.DateWindow, seq uint64) {
	start := time.Now()
	aggs := analysis.Aggregate(s.events, w)

	s.reqMu.Lock()
	if s.closed || s.seq != seq {
		s.reqMu.Unlock()
		s.logger.Debug().Stringer("window", w).Msg("discarding superseded recompute")
		return
	}
	s.pending = nil

	s.mu.Lock()
	s.state = State{
		Window:     w,
		Aggregates: aggs,
		Generation: s.state.Generation + 1,
	}
	published := s.state
	s.mu.Unlock()
	s.reqMu.Unlock()

	s.logger.Debug().
		Stringer("window", w).
		Int("tracks", len(aggs)).
		Dur("took", time.Since(start)).
		Uint64("generation", published.Generation).
		Msg("published aggregates")

	s.notify(published)
}

func (s *Session) notify(st State) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if st.Generation <= s.lastNotified {
		return
	}
	s.lastNotified = st.Generation

	if s.opts.Saver != nil {
		if err := s.opts.Saver.SaveWindow(st.Window); err != nil {
			s.logger.Warn().Err(err).Msg("saving window")
		}
	}
	if s.opts.OnChange != nil {
		s.opts.OnChange(st)
	}
}
