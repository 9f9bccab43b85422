// Package progress tracks the state of a long-running install so that a
// frontend can render it while the work happens elsewhere.
package progress

import "sync"

// Event is the shared progress state of one operation. The zero value is
// ready to use. All methods are safe for concurrent use.
type Event struct {
	mu         sync.Mutex
	totalSteps int
	step       int
	statusCode int
	now        int64
	total      int64
	message    string
}

// Snapshot is a point-in-time copy of an Event.
type Snapshot struct {
	TotalSteps int
	Step       int
	StatusCode int
	// Now and Total are the byte (or entry) counters of the current step.
	Now, Total int64
	Message    string
}

// Reset clears all state.
func (e *Event) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.totalSteps, e.step, e.statusCode = 0, 0, 0
	e.now, e.total = 0, 0
	e.message = ""
}

func (e *Event) SetTotalSteps(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.totalSteps = n
}

func (e *Event) SetStep(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.step = n
}

// IncrementStep advances the step counter by n, never past the total.
func (e *Event) IncrementStep(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.step += n
	if e.totalSteps > 0 && e.step > e.totalSteps {
		e.step = e.totalSteps
	}
}

func (e *Event) SetStatusCode(code int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statusCode = code
}

func (e *Event) StatusCode() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statusCode
}

// SetCounters updates the counters of the current step. A total of zero or
// less means unknown.
func (e *Event) SetCounters(now, total int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now, e.total = now, total
}

// SetMessage sets a human readable description of the current step.
func (e *Event) SetMessage(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.message = msg
}

// Finished reports whether every step has been completed.
func (e *Event) Finished() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalSteps > 0 && e.step >= e.totalSteps
}

func (e *Event) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		TotalSteps: e.totalSteps,
		Step:       e.step,
		StatusCode: e.statusCode,
		Now:        e.now,
		Total:      e.total,
		Message:    e.message,
	}
}
