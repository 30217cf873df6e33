package session

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ademuri/listening-insights/internal/analysis"
	"github.com/ademuri/listening-insights/internal/history"
	"github.com/ademuri/listening-insights/internal/logging"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func testLog() *history.Log {
	var events []history.PlayEvent
	for y := 2018; y <= 2022; y++ {
		events = append(events,
			history.PlayEvent{Timestamp: date(y, 3, 1), TrackURI: "a", TrackName: "A", PlayedMs: 60000},
			history.PlayEvent{Timestamp: date(y, 6, 1), TrackURI: "b", TrackName: "B", PlayedMs: 5000, ReasonStart: "clickrow"},
		)
	}
	events = append(events, history.PlayEvent{Timestamp: date(2022, 7, 1), TrackURI: "c", TrackName: "C", PlayedMs: 200000})
	return history.NewLog(events)
}

func yearWindow(y int) analysis.DateWindow {
	return analysis.DateWindow{
		Start: time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(y+1, 1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
	}
}

type recorder struct {
	mu      sync.Mutex
	windows []analysis.DateWindow
	states  []State
	err     error
}

func (r *recorder) SaveWindow(w analysis.DateWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.windows = append(r.windows, w)
	return r.err
}

func (r *recorder) onChange(st State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, st)
}

func (r *recorder) published() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func TestNewComputesInitialWindow(t *testing.T) {
	s := New(testLog(), Options{Window: yearWindow(2022)})
	defer s.Close()

	st := s.State()
	assert.True(t, st.Window.Equal(yearWindow(2022)))
	assert.Len(t, st.Aggregates, 3)
	assert.Zero(t, st.Generation)
}

func TestSetWindowPublishesAtomically(t *testing.T) {
	rec := &recorder{}
	s := New(testLog(), Options{Saver: rec, OnChange: rec.onChange})
	defer s.Close()

	require.Len(t, s.State().Aggregates, 3)

	st := s.SetWindow(yearWindow(2019))
	assert.True(t, st.Window.Equal(yearWindow(2019)))
	assert.Len(t, st.Aggregates, 2)
	assert.Equal(t, uint64(1), st.Generation)
	assert.Equal(t, st, s.State())

	require.Len(t, rec.windows, 1)
	assert.True(t, rec.windows[0].Equal(yearWindow(2019)))
	require.Len(t, rec.published(), 1)
}

func TestRequestWindowCoalesces(t *testing.T) {
	rec := &recorder{}
	s := New(testLog(), Options{Debounce: 30 * time.Millisecond, OnChange: rec.onChange})
	defer s.Close()

	for y := 2018; y <= 2022; y++ {
		s.RequestWindow(yearWindow(y))
	}

	require.Eventually(t, func() bool {
		return s.State().Generation == 1
	}, 2*time.Second, 5*time.Millisecond)

	// Give a stray second publish the chance to show up.
	time.Sleep(100 * time.Millisecond)
	published := rec.published()
	require.Len(t, published, 1)
	assert.True(t, published[0].Window.Equal(yearWindow(2022)))
	assert.Len(t, published[0].Aggregates, 3)
}

func TestRequestWindowLastWins(t *testing.T) {
	s := New(testLog(), Options{Debounce: 20 * time.Millisecond})
	defer s.Close()

	s.RequestWindow(yearWindow(2018))
	s.RequestWindow(analysis.DateWindow{})
	s.RequestWindow(yearWindow(2020))

	require.Eventually(t, func() bool {
		return s.State().Generation > 0
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, s.State().Window.Equal(yearWindow(2020)))
}

func TestCloseCancelsPendingRequest(t *testing.T) {
	rec := &recorder{}
	s := New(testLog(), Options{Debounce: 20 * time.Millisecond, Saver: rec, OnChange: rec.onChange})

	s.RequestWindow(yearWindow(2019))
	s.Close()
	s.RequestWindow(yearWindow(2020))

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.published())
	assert.Empty(t, rec.windows)
	assert.Zero(t, s.State().Generation)

	st := s.SetWindow(yearWindow(2021))
	assert.Zero(t, st.Generation)
}

func TestSetWindowSupersedesPendingRequest(t *testing.T) {
	rec := &recorder{}
	s := New(testLog(), Options{Debounce: 30 * time.Millisecond, OnChange: rec.onChange})
	defer s.Close()

	s.RequestWindow(yearWindow(2018))
	s.SetWindow(yearWindow(2021))

	time.Sleep(120 * time.Millisecond)
	st := s.State()
	assert.True(t, st.Window.Equal(yearWindow(2021)))
	assert.Equal(t, uint64(1), st.Generation)
	assert.Len(t, rec.published(), 1)
}

func TestThrottleLetsIntermediateRecomputeThrough(t *testing.T) {
	rec := &recorder{}
	s := New(testLog(), Options{
		Debounce: 50 * time.Millisecond,
		Throttle: time.Hour,
		OnChange: rec.onChange,
	})
	defer s.Close()

	s.RequestWindow(yearWindow(2018))
	require.Eventually(t, func() bool {
		return s.State().Generation == 1
	}, time.Second, time.Millisecond)
	assert.True(t, s.State().Window.Equal(yearWindow(2018)))

	// The limiter is spent, so these only settle through the debounce.
	s.RequestWindow(yearWindow(2019))
	s.RequestWindow(yearWindow(2020))
	require.Eventually(t, func() bool {
		return s.State().Window.Equal(yearWindow(2020))
	}, 2*time.Second, 5*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	for _, st := range rec.published() {
		assert.False(t, st.Window.Equal(yearWindow(2019)), "superseded window was published")
	}
}

func TestSaverErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewTestLogger(&buf)
	rec := &recorder{err: errors.New("disk full")}
	s := New(testLog(), Options{Saver: rec, Logger: &logger})
	defer s.Close()

	st := s.SetWindow(yearWindow(2020))
	assert.Equal(t, uint64(1), st.Generation)
	assert.Contains(t, buf.String(), "disk full")
}

func TestInsights(t *testing.T) {
	s := New(testLog(), Options{Window: yearWindow(2022)})
	defer s.Close()

	in, ok := s.Insights("b")
	require.True(t, ok)
	assert.Equal(t, 5, in.Track.EventCount)
	assert.Equal(t, int64(25000), in.Track.TotalPlayedMs)
	assert.Equal(t, 5, in.Skips.SkipCount)
	assert.Equal(t, 1.0, in.Skips.SkipRate)
	assert.Equal(t, 1.0, in.Context.ManualRatio)
	require.Len(t, in.Lifetime.Curve, 5)
	require.NotNil(t, in.Lifetime.FirstPlay)
	assert.Equal(t, "2018-06-01", *in.Lifetime.FirstPlay)

	_, ok = s.Insights("missing")
	assert.False(t, ok)
	_, ok = s.Insights("")
	assert.False(t, ok)
}

func TestEmptyLog(t *testing.T) {
	s := New(history.NewLog(nil), Options{})
	defer s.Close()

	assert.Empty(t, s.State().Aggregates)
	assert.Empty(t, s.SetWindow(yearWindow(2020)).Aggregates)
}
