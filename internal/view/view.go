// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package view owns the live state of the 360° band: the latest sensor
// sample, the chosen heading strategy and the placed components. All state
// changes run on the single goroutine started by Run; everything else talks
// to it through the methods below.
package view

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/relabs-tech/view360/internal/heading"
	"github.com/relabs-tech/view360/internal/metrics"
	"github.com/relabs-tech/view360/internal/orientation"
	"github.com/relabs-tech/view360/internal/projection"
)

// Sink receives every composed frame.
type Sink interface {
	Render(Frame) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Frame) error

func (f SinkFunc) Render(fr Frame) error { return f(fr) }

// ErrStopped is returned by calls made after Run has returned.
var ErrStopped = errors.New("view stopped")

// Options configures a View.
type Options struct {
	Band     projection.Band
	Viewport projection.Size
	Strategy heading.Strategy

	// HeadingFilterDeg drops heading samples that moved less than this
	// from the last accepted one. Zero disables the filter.
	HeadingFilterDeg float64

	// RelativeAttitude makes attitudes relative to the first one received
	// (or the one after ResetReference).
	RelativeAttitude bool

	Metrics *metrics.Collector
	Now     func() time.Time
}

// DefaultHeadingFilterDeg matches the compass delivery filter.
const DefaultHeadingFilterDeg = 1.0

type state struct {
	sample    orientation.Sample
	strategy  heading.Strategy
	layout    *projection.Layout
	reference *orientation.Attitude
	alert     *Alert
	dirty     bool
}

// View serialises all mutations onto one goroutine and redraws after each
// batch of changes.
type View struct {
	opts Options
	sink Sink
	ops  chan func(*state)
	done chan struct{}

	// drawMu is held for the whole compose+render cycle; pending records
	// requests that arrived while it was held.
	drawMu  sync.Mutex
	drawing atomic.Bool
	pending atomic.Bool

	seq uint64

	lastMu sync.RWMutex
	last   Frame
	have   bool
}

const opQueue = 64

// New creates a view. Nothing happens until Run is called.
func New(opts Options, sink Sink) *View {
	if opts.Band.Radius == 0 {
		opts.Band = projection.DefaultBand()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if sink == nil {
		sink = SinkFunc(func(Frame) error { return nil })
	}
	return &View{
		opts: opts,
		sink: sink,
		ops:  make(chan func(*state), opQueue),
		done: make(chan struct{}),
	}
}

// Run applies queued changes until ctx is cancelled.
func (v *View) Run(ctx context.Context) error {
	defer close(v.done)

	st := &state{
		strategy: v.opts.Strategy,
		layout:   projection.NewLayout(v.opts.Band),
	}
	st.layout.SetViewport(v.opts.Viewport)
	st.dirty = true
	v.redraw(st)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case op := <-v.ops:
			op(st)
			// Fold whatever else is already queued into the same frame.
		drain:
			for i := 0; i < opQueue; i++ {
				select {
				case op := <-v.ops:
					op(st)
				default:
					break drain
				}
			}
			if st.dirty || v.pending.Load() {
				v.redraw(st)
			}
		}
	}
}

func (v *View) do(op func(*state)) error {
	select {
	case v.ops <- op:
		return nil
	case <-v.done:
		return ErrStopped
	}
}

// redraw composes and renders frames until no request is pending. A call
// that finds a draw in progress only marks a follow-up.
func (v *View) redraw(st *state) {
	if !v.drawMu.TryLock() {
		v.pending.Store(true)
		v.opts.Metrics.Coalesced()
		return
	}
	v.drawing.Store(true)
	defer func() {
		v.drawing.Store(false)
		v.drawMu.Unlock()
	}()

	for {
		v.pending.Store(false)
		st.dirty = false

		f := Compose(st.sample, st.strategy, st.layout)
		v.seq++
		f.Seq = v.seq
		f.Stamp = v.opts.Now().UnixMilli()
		if st.alert != nil {
			f.Alert = st.alert
			st.alert = nil
		}

		v.lastMu.Lock()
		v.last = f
		v.have = true
		v.lastMu.Unlock()

		v.opts.Metrics.Redraw(len(f.Components), f.Info.Heading, f.Info.HeadingValid)
		if err := v.sink.Render(f); err != nil {
			v.opts.Metrics.RenderError()
			log.Printf("view: render error: %v", err)
		}

		if !v.pending.Load() {
			return
		}
	}
}

// Invalidate asks for a redraw. Calls made while a frame is being
// rendered, including from inside a sink, are folded into one extra frame.
func (v *View) Invalidate() {
	if v.drawing.Load() {
		v.pending.Store(true)
		v.opts.Metrics.Coalesced()
		return
	}
	select {
	case v.ops <- func(st *state) { st.dirty = true }:
	default:
		// Queue is full; the loop checks pending after draining it.
		v.pending.Store(true)
	}
}

// Last returns the most recently rendered frame.
func (v *View) Last() (Frame, bool) {
	v.lastMu.RLock()
	defer v.lastMu.RUnlock()
	return v.last, v.have
}

// Apply folds a combined reading into the sample.
func (v *View) Apply(r orientation.Reading) error {
	return v.do(func(st *state) {
		if r.Attitude != nil {
			v.setAttitude(st, *r.Attitude)
		}
		if r.Heading != nil {
			v.setHeading(st, *r.Heading)
		}
		if r.Acceleration != nil {
			v.setAcceleration(st, *r.Acceleration)
		}
	})
}

func (v *View) SetAttitude(a orientation.Attitude) error {
	return v.do(func(st *state) { v.setAttitude(st, a) })
}

func (v *View) SetHeading(deg float64) error {
	return v.do(func(st *state) { v.setHeading(st, deg) })
}

func (v *View) SetAcceleration(a orientation.Vector3) error {
	return v.do(func(st *state) { v.setAcceleration(st, a) })
}

// ClearAttitude records that the attitude sensor reported nothing.
func (v *View) ClearAttitude() error {
	return v.do(func(st *state) { st.sample.Attitude.Clear(); st.dirty = true })
}

// ClearHeading records that the compass reported nothing.
func (v *View) ClearHeading() error {
	return v.do(func(st *state) { st.sample.Heading.Clear(); st.dirty = true })
}

// ClearAcceleration records that the accelerometer reported nothing.
func (v *View) ClearAcceleration() error {
	return v.do(func(st *state) { st.sample.Acceleration.Clear(); st.dirty = true })
}

func (v *View) setAttitude(st *state, a orientation.Attitude) {
	if v.opts.RelativeAttitude {
		if st.reference == nil {
			ref := a
			st.reference = &ref
		}
		a = a.MultiplyByInverse(*st.reference)
	}
	st.sample.Attitude.Set(a)
	st.dirty = true
	v.opts.Metrics.Sample("attitude")
}

func (v *View) setHeading(st *state, deg float64) {
	if prev, ok := st.sample.Heading.Get(); ok && v.opts.HeadingFilterDeg > 0 {
		if headingDelta(prev, deg) < v.opts.HeadingFilterDeg {
			v.opts.Metrics.Filtered()
			return
		}
	}
	st.sample.Heading.Set(deg)
	st.dirty = true
	v.opts.Metrics.Sample("heading")
}

func (v *View) setAcceleration(st *state, a orientation.Vector3) {
	st.sample.Acceleration.Set(a)
	st.dirty = true
	v.opts.Metrics.Sample("acceleration")
}

// headingDelta is the smallest angle between two compass headings.
func headingDelta(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// ResetReference makes the next attitude the new zero when
// RelativeAttitude is enabled.
func (v *View) ResetReference() error {
	return v.do(func(st *state) { st.reference = nil })
}

func (v *View) SetStrategy(s heading.Strategy) error {
	if !s.Valid() {
		return errors.New("view: unknown heading strategy")
	}
	return v.do(func(st *state) {
		if st.strategy != s {
			log.Printf("view: heading strategy %v -> %v", st.strategy, s)
		}
		st.strategy = s
		st.dirty = true
	})
}

// SelectStrategy applies a UI selector index.
func (v *View) SelectStrategy(index int) error {
	s, ok := heading.StrategyFromIndex(index)
	if !ok {
		return errors.New("view: strategy index out of range")
	}
	return v.SetStrategy(s)
}

func (v *View) SetViewport(size projection.Size) error {
	return v.do(func(st *state) {
		st.layout.SetViewport(size)
		st.dirty = true
	})
}

// Append places a component on the band.
func (v *View) Append(c projection.Component) error {
	return v.do(func(st *state) {
		st.layout.Append(c)
		v.opts.Metrics.SetComponents(st.layout.Len())
		st.dirty = true
	})
}

// ShowAlert attaches an alert to the next frame only.
func (v *View) ShowAlert(title, message string) error {
	return v.do(func(st *state) {
		st.alert = &Alert{Title: title, Message: message}
		st.dirty = true
	})
}
