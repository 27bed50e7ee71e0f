package webchat

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/webchat-dev/webchat/client"
	"github.com/webchat-dev/webchat/core"
	"github.com/webchat-dev/webchat/store"
)

// App is the client controller. It owns the whole client state and runs a
// single event loop: every user-initiated operation and every sync tick is
// a function executed to completion on the loop goroutine, so state is
// never touched concurrently. Network calls run on short-lived worker
// goroutines and re-enter the loop as completion functions, which is why
// every completion must check whether the state it was fetched for is
// still wanted before applying it.
type App struct {
	config   *Config
	logger   *slog.Logger
	api      *client.Client
	sessions store.SessionStore

	ctx    context.Context
	cancel context.CancelFunc

	// state is owned by the loop goroutine.
	state core.State

	ops     chan func()
	pending sync.WaitGroup
	done    chan struct{}
	stopped sync.Once

	// pollStop is non-nil exactly while the sync loop is in its polling
	// state.
	pollStop chan struct{}

	onChange func(core.Snapshot)
}

type AppOption func(*App)

func WithLogger(logger *slog.Logger) AppOption {
	return func(a *App) { a.logger = logger }
}

func WithClient(c *client.Client) AppOption {
	return func(a *App) { a.api = c }
}

// OnChange registers the render callback invoked with a fresh snapshot
// after every state change. Must be set before Start.
func WithOnChange(fn func(core.Snapshot)) AppOption {
	return func(a *App) { a.onChange = fn }
}

func New(ctx context.Context, config *Config, sessions store.SessionStore, opts ...AppOption) *App {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	a := &App{
		config:   config,
		sessions: sessions,
		ctx:      ctx,
		cancel:   cancel,
		ops:      make(chan func(), 64),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = NewLogger(slog.LevelInfo)
	}
	if a.api == nil {
		a.api = client.New(config.ServerURL,
			client.WithTimeout(config.HTTPTimeout),
			client.WithLogger(a.logger))
	}
	return a
}

// NewLogger builds the controller's slog logger: text handler with short
// source locations.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.SourceKey {
				source, _ := attr.Value.Any().(*slog.Source)
				if source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			return attr
		},
	}))
}

// Start spawns the event loop. The loop runs until Stop.
func (a *App) Start() {
	go a.loop()
}

// Stop halts the event loop and cancels all in-flight requests. Pending
// operations are discarded.
func (a *App) Stop() {
	a.stopped.Do(func() {
		close(a.done)
		a.cancel()
	})
}

func (a *App) loop() {
	for {
		select {
		case op := <-a.ops:
			op()
			a.publish()
		case <-a.done:
			return
		}
	}
}

func (a *App) publish() {
	if a.onChange != nil {
		a.onChange(a.state.Snapshot())
	}
}

// do queues op onto the event loop.
func (a *App) do(op func()) {
	a.pending.Add(1)
	select {
	case <-a.done:
		a.pending.Done()
		return
	default:
	}
	select {
	case a.ops <- func() { defer a.pending.Done(); op() }:
	case <-a.done:
		a.pending.Done()
	}
}

// async runs work off the loop; work returns the completion function that
// re-enters the loop with the result. Must be called from the loop.
func (a *App) async(work func() func()) {
	a.pending.Add(1)
	go func() {
		op := work()
		select {
		case a.ops <- func() { defer a.pending.Done(); op() }:
		case <-a.done:
			a.pending.Done()
		}
	}()
}

// after schedules op onto the loop once d has elapsed. Must be called from
// the loop.
func (a *App) after(d time.Duration, op func()) {
	a.pending.Add(1)
	time.AfterFunc(d, func() {
		select {
		case a.ops <- func() { defer a.pending.Done(); op() }:
		case <-a.done:
			a.pending.Done()
		}
	})
}

// Wait blocks until every queued operation, scheduled follow-up, and
// in-flight network completion has been applied. It is a test aid: callers
// must make sure the recurring poll timer is not running, since its ticks
// enter the loop outside this accounting.
func (a *App) Wait() {
	a.pending.Wait()
}

// Snapshot returns a copy of the current state, taken on the loop so it is
// consistent.
func (a *App) Snapshot() core.Snapshot {
	ch := make(chan core.Snapshot, 1)
	a.do(func() { ch <- a.state.Snapshot() })
	select {
	case snap := <-ch:
		return snap
	case <-a.done:
		return core.Snapshot{}
	}
}

func (a *App) success(text string) {
	a.setStatus(text, core.StatusSuccess)
}

func (a *App) fail(text string) {
	a.setStatus(text, core.StatusError)
}

func (a *App) setStatus(text string, kind core.StatusKind) {
	a.state.Status = core.Status{
		Text:   text,
		Kind:   kind,
		Expiry: time.Now().Add(a.config.StatusTTL),
	}
}
