package placelink

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultFallbackDelay is how long Open waits after trying a deep link before
// opening the web search as a fallback.
const DefaultFallbackDelay = 2000 * time.Millisecond

// Navigator performs navigations on behalf of an Opener.
type Navigator interface {
	// Navigate redirects the current browsing context to u.
	Navigate(u string)
	// OpenIsolated opens u in a new context without referrer or opener.
	OpenIsolated(u string)
}

// Timer is a scheduled function that can be stopped before it runs.
type Timer interface {
	// Stop prevents the function from running. It reports false when the
	// function already ran or was stopped.
	Stop() bool
}

// Scheduler arms delayed functions. AfterFunc must not call f synchronously.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// OpenerOption configures an Opener.
type OpenerOption func(*Opener)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) OpenerOption {
	return func(o *Opener) {
		o.scheduler = s
	}
}

// WithFallbackDelay overrides DefaultFallbackDelay. Non-positive values are ignored.
func WithFallbackDelay(d time.Duration) OpenerOption {
	return func(o *Opener) {
		if d > 0 {
			o.delay = d
		}
	}
}

// fallback is one armed web search fallback.
type fallback struct {
	timer Timer
}

// Opener opens links through a Navigator. Deep links are tried first and a web
// search fallback is opened after a delay whether or not the native app opened.
//
// At most one fallback is pending per link URL: opening the same deep link
// again before its fallback fired re-arms it instead of stacking a second one.
// Opener is safe for concurrent use.
type Opener struct {
	nav       Navigator
	scheduler Scheduler
	delay     time.Duration

	mu      sync.Mutex
	pending map[string]*fallback
	wg      sync.WaitGroup
}

// NewOpener returns an Opener navigating through nav.
func NewOpener(nav Navigator, opts ...OpenerOption) *Opener {
	o := &Opener{
		nav:       nav,
		scheduler: realScheduler{},
		delay:     DefaultFallbackDelay,
		pending:   make(map[string]*fallback),
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Pending is the handle of a fallback armed by Open. The zero value is a no-op.
type Pending struct {
	cancel func() bool
}

// Cancel stops the fallback. It reports whether the fallback was prevented
// from running.
func (p Pending) Cancel() bool {
	if p.cancel == nil {
		return false
	}

	return p.cancel()
}

// Open navigates to link. A nil link is a no-op. Plain web URLs are opened in
// an isolated context right away. Deep links replace the current context and
// arm a fallback that opens WebSearchURL(link.Label) in an isolated context.
func (o *Opener) Open(link *Link) Pending {
	if link == nil {
		return Pending{}
	}

	if !IsDeepLink(link.URL) {
		o.nav.OpenIsolated(link.URL)

		return Pending{}
	}

	o.nav.Navigate(link.URL)

	key := link.URL
	fallbackURL := WebSearchURL(link.Label)

	o.mu.Lock()
	defer o.mu.Unlock()

	if prev, ok := o.pending[key]; ok {
		delete(o.pending, key)
		if prev.timer.Stop() {
			o.wg.Done()
		}
	}

	f := &fallback{}
	o.wg.Add(1)
	f.timer = o.scheduler.AfterFunc(o.delay, func() {
		defer o.wg.Done()

		o.mu.Lock()
		if o.pending[key] == f {
			delete(o.pending, key)
		}
		o.mu.Unlock()

		o.nav.OpenIsolated(fallbackURL)
	})
	o.pending[key] = f

	return Pending{cancel: func() bool {
		return o.cancel(key, f)
	}}
}

func (o *Opener) cancel(key string, f *fallback) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.pending[key] != f {
		return false
	}
	delete(o.pending, key)

	if !f.timer.Stop() {
		return false
	}
	o.wg.Done()

	return true
}

// PendingCount returns the number of armed fallbacks.
func (o *Opener) PendingCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.pending)
}

// Wait blocks until every armed fallback has run or been cancelled.
func (o *Opener) Wait() {
	o.wg.Wait()
}

// WriterNavigator is a Navigator that prints each navigation as a line to W,
// "navigate <url>" or "open <url>".
type WriterNavigator struct {
	mu sync.Mutex
	W  io.Writer
}

// Navigate implements Navigator.
func (n *WriterNavigator) Navigate(u string) {
	n.write("navigate", u)
}

// OpenIsolated implements Navigator.
func (n *WriterNavigator) OpenIsolated(u string) {
	n.write("open", u)
}

func (n *WriterNavigator) write(action, u string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, _ = fmt.Fprintf(n.W, "%s %s\n", action, u)
}
