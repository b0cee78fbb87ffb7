// Package loop runs the cooperative core. A single goroutine owns the
// device state, palette, store, processor, navigator and scheduler, so no
// handler ever needs a lock. Surfaces submit work over a bounded queue and
// block on a reply channel; the core never blocks on a surface.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lednode/lednode/internal/button"
	"github.com/lednode/lednode/internal/command"
	"github.com/lednode/lednode/internal/device"
	"github.com/lednode/lednode/internal/events"
	"github.com/lednode/lednode/internal/logging"
	"github.com/lednode/lednode/internal/metrics"
	"github.com/lednode/lednode/internal/render"
)

// ErrStopped is returned for requests submitted after the core loop exited.
var ErrStopped = errors.New("core loop stopped")

const requestQueueSize = 32

type request struct {
	fn     func(*command.Processor) any
	reply  chan any
	source string
}

// Loop is the cooperative core.
type Loop struct {
	processor *command.Processor
	navigator *button.Navigator
	scheduler *render.Scheduler
	state     *device.State
	bus       *events.Bus
	gestures  <-chan button.Gesture
	logger    *slog.Logger

	requests chan request
	done     chan struct{}
}

// New wires the core loop. The gesture channel may be nil when no button is
// configured.
func New(proc *command.Processor, nav *button.Navigator, sched *render.Scheduler, state *device.State, bus *events.Bus, gestures <-chan button.Gesture) *Loop {
	return &Loop{
		processor: proc,
		navigator: nav,
		scheduler: sched,
		state:     state,
		bus:       bus,
		gestures:  gestures,
		logger:    logging.GetLogger("loop"),
		requests:  make(chan request, requestQueueSize),
		done:      make(chan struct{}),
	}
}

// Run services queued commands, button gestures and the render clock until
// the context is canceled. Nothing else may touch the shared state while
// Run is live.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	ticker := time.NewTicker(l.scheduler.FramePeriod())
	defer ticker.Stop()

	// Boot state is off; paint it so the strip never shows stale pixels.
	l.state.MarkDirty()
	l.scheduler.Apply(time.Now())
	l.logger.Info("Core loop running")

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Core loop stopping")
			return
		case req := <-l.requests:
			l.handleRequest(req)
		case g, ok := <-l.gestures:
			if !ok {
				l.gestures = nil
				continue
			}
			l.handleGesture(g)
		case now := <-ticker.C:
			l.scheduler.Advance(now)
		}
	}
}

// Do runs fn on the core goroutine and returns its result. Source names
// the surface for broadcast events.
func Do[T any](ctx context.Context, l *Loop, source string, fn func(*command.Processor) (T, error)) (T, error) {
	var zero T
	reply := make(chan any, 1)
	req := request{
		fn: func(p *command.Processor) any {
			v, err := fn(p)
			return result[T]{value: v, err: err}
		},
		reply:  reply,
		source: source,
	}

	select {
	case l.requests <- req:
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-l.done:
		return zero, ErrStopped
	}

	select {
	case v := <-reply:
		res := v.(result[T])
		return res.value, res.err
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-l.done:
		// The loop may have replied right before exiting.
		select {
		case v := <-reply:
			res := v.(result[T])
			return res.value, res.err
		default:
			return zero, ErrStopped
		}
	}
}

type result[T any] struct {
	value T
	err   error
}

func (l *Loop) handleRequest(req request) {
	req.reply <- req.fn(l.processor)
	l.afterMutation(req.source)
}

func (l *Loop) handleGesture(g button.Gesture) {
	l.navigator.Handle(g)
	metrics.RecordGesture(g.String())

	now := time.Now()
	l.bus.Publish(events.GestureEvent{
		Gesture:   g.String(),
		Timestamp: now.UTC().Format(time.RFC3339),
	})
	l.afterMutation("button")
}

// afterMutation broadcasts the new state if anything changed, then lets
// the scheduler service the redraw in the same iteration.
func (l *Loop) afterMutation(source string) {
	now := time.Now()
	if l.state.Dirty() {
		view := l.processor.StateView()
		l.bus.Publish(events.StateChangedEvent{
			Mode:       view.Mode,
			ColorHex:   view.Color,
			Brightness: view.Brightness,
			Effect:     view.Effect,
			Scratch:    view.Scratch,
			Source:     source,
			Timestamp:  now.UTC().Format(time.RFC3339),
		})
	}
	l.scheduler.Apply(now)
}
