package main

import (
	"context"
	"time"
)

// DefaultRefreshInterval is how often displayed figures are recomputed
const DefaultRefreshInterval = time.Second

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the local zone
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FrameSource produces the frame to show at a given instant
type FrameSource interface {
	Snapshot(now time.Time) Frame
}

// Presenter displays one frame. A returned error stops the ticker.
type Presenter interface {
	Present(Frame) error
}

// PresenterFunc adapts a function to Presenter
type PresenterFunc func(Frame) error

func (f PresenterFunc) Present(frame Frame) error { return f(frame) }

// Ticker recomputes the countdown on a fixed interval and hands each
// frame to a presenter
type Ticker struct {
	Interval  time.Duration
	Clock     Clock
	Source    FrameSource
	Presenter Presenter
}

// NewTicker returns a ticker on the system clock
func NewTicker(source FrameSource, presenter Presenter, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Ticker{
		Interval:  interval,
		Clock:     SystemClock{},
		Source:    source,
		Presenter: presenter,
	}
}

// Tick computes and presents a single frame
func (t *Ticker) Tick() error {
	return t.Presenter.Present(t.Source.Snapshot(t.Clock.Now()))
}

// Run presents a frame immediately and then once per interval until ctx
// is done (returns nil) or the presenter fails (returns its error)
func (t *Ticker) Run(ctx context.Context) error {
	if err := t.Tick(); err != nil {
		return err
	}

	tk := time.NewTicker(t.Interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tk.C:
			if err := t.Tick(); err != nil {
				return err
			}
		}
	}
}
