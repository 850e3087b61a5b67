// Package notify keeps the single transient notice a session shows its user.
package notify

import (
	"sync"
	"time"
)

// Kind classifies a notice
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
	Loading Kind = "loading"
)

// DefaultTTL is how long a non-loading notice stays visible
const DefaultTTL = 3 * time.Second

// Notice is a message shown to the user
type Notice struct {
	Message string    `json:"message"`
	Kind    Kind      `json:"type"`
	ShownAt time.Time `json:"shownAt"`
}

// Center holds at most one visible notice. Showing a new notice replaces the
// current one; non-loading notices hide themselves after the TTL.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notice
	timer   *time.Timer
	gen     uint64
	closed  bool
	onShow  func(Notice)
	history []Notice
}

// Option configures a Center
type Option func(*Center)

// WithTTL overrides the auto-dismiss delay
func WithTTL(ttl time.Duration) Option {
	return func(c *Center) { c.ttl = ttl }
}

// WithListener registers fn to be called for every shown notice
func WithListener(fn func(Notice)) Option {
	return func(c *Center) { c.onShow = fn }
}

// NewCenter creates a notification center
func NewCenter(opts ...Option) *Center {
	c := &Center{ttl: DefaultTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Show replaces the visible notice with a new one
func (c *Center) Show(kind Kind, message string) Notice {
	n := Notice{Message: message, Kind: kind, ShownAt: time.Now()}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return n
	}
	c.stopTimerLocked()
	c.gen++
	c.current = &n
	c.history = append(c.history, n)
	if kind != Loading && c.ttl > 0 {
		gen := c.gen
		c.timer = time.AfterFunc(c.ttl, func() { c.expire(gen) })
	}
	listener := c.onShow
	c.mu.Unlock()

	if listener != nil {
		listener(n)
	}
	return n
}

// Current returns the visible notice, if any
func (c *Center) Current() (Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Notice{}, false
	}
	return *c.current, true
}

// History returns every notice shown since the center was created
func (c *Center) History() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.history))
	copy(out, c.history)
	return out
}

// Dismiss hides the visible notice and cancels its timer
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.gen++
	c.current = nil
}

// Close dismisses the notice and ignores any later Show calls
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.gen++
	c.current = nil
	c.closed = true
}

func (c *Center) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// a newer notice or an explicit dismiss already took over
	if gen != c.gen {
		return
	}
	c.current = nil
	c.timer = nil
}

func (c *Center) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
