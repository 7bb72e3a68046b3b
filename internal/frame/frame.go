// Package frame provides the two scheduling primitives the timeline engine
// relies on: a coalescing queue that keeps only the latest pending input and
// hands out at most one flush per frame, and a debouncer for settle delays.
//
// Neither type owns a timer. Callers schedule the flush themselves (a
// bubbletea tick, a time.AfterFunc, or a manual call in tests) and present
// the returned Token when it fires. Tokens from cancelled or superseded
// schedules are rejected, so a stale callback can never mutate state after
// Cancel.
package frame

import "time"

// DefaultInterval is one display refresh at 60Hz.
const DefaultInterval = 16 * time.Millisecond

// Token identifies one scheduled flush.
type Token uint64

// Queue holds the most recent pending value of type T.
type Queue[T any] struct {
	pending   T
	has       bool
	scheduled bool
	gen       Token
}

// Push stores v, replacing any value that has not been flushed yet. It
// returns the token of the flush that will deliver v and whether the caller
// must schedule that flush. schedule is false when a flush is already
// outstanding; the pending flush will pick up v.
func (q *Queue[T]) Push(v T) (tok Token, schedule bool) {
	q.pending = v
	q.has = true
	if q.scheduled {
		return q.gen, false
	}
	q.gen++
	q.scheduled = true
	return q.gen, true
}

// Flush returns the pending value if tok is the outstanding flush.
func (q *Queue[T]) Flush(tok Token) (T, bool) {
	var zero T
	if !q.scheduled || tok != q.gen {
		return zero, false
	}
	q.scheduled = false
	return q.take()
}

// Cancel discards the pending value and invalidates any outstanding flush.
func (q *Queue[T]) Cancel() {
	var zero T
	q.pending = zero
	q.has = false
	if q.scheduled {
		q.scheduled = false
		q.gen++
	}
}

// Pending reports whether a value is waiting for a flush.
func (q *Queue[T]) Pending() bool { return q.has }

// Scheduled reports whether a flush is outstanding.
func (q *Queue[T]) Scheduled() bool { return q.scheduled }

func (q *Queue[T]) take() (T, bool) {
	var zero T
	if !q.has {
		return zero, false
	}
	v := q.pending
	q.pending = zero
	q.has = false
	return v, true
}

// Debouncer fires once after the last of a burst of touches.
type Debouncer struct {
	delay time.Duration
	gen   Token
	armed bool
}

// NewDebouncer returns a debouncer with the given settle delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay is how long the caller should wait before presenting the token.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Touch restarts the settle period and returns the token that must be
// presented to Fire once Delay has elapsed.
func (d *Debouncer) Touch() Token {
	d.gen++
	d.armed = true
	return d.gen
}

// Fire reports whether tok belongs to the most recent touch. A true result
// disarms the debouncer.
func (d *Debouncer) Fire(tok Token) bool {
	if !d.armed || tok != d.gen {
		return false
	}
	d.armed = false
	return true
}

// Cancel invalidates any outstanding token.
func (d *Debouncer) Cancel() {
	if d.armed {
		d.gen++
		d.armed = false
	}
}

// Pending reports whether a touch is waiting to settle.
func (d *Debouncer) Pending() bool { return d.armed }
