// Package control implements the device control widgets: a Light for one
// device and a Fleet for all of them.
//
// Every change updates the local snapshot at once and is merged into a
// pending action. The pending action is sent after a quiet period
// (DefaultInterval). Within a window the last value set for a field wins and
// all fields changed in the window go out together in one call. There is no
// request sequencing: the acknowledgment shown is whichever response arrived
// last.
//
//	Idle --change--> PendingSend --timer/Flush--> Sent --response--> Idle
//	                      ^                         |
//	                      +---- change while Sent --+
package control

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/homelights/internal/client/models"
	"github.com/dmitrijs2005/homelights/internal/logging"
)

// DefaultInterval is the debounce quiet period.
const DefaultInterval = 300 * time.Millisecond

type State int

const (
	StateIdle State = iota
	StatePendingSend
	StateSent
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePendingSend:
		return "pending"
	case StateSent:
		return "sent"
	}
	return "unknown"
}

// ResultFunc is called after every response with the widget's target
// ("" for the fleet), the backend message and the error, if any.
type ResultFunc func(target, message string, err error)

// Options configures a widget. Zero values fall back to defaults.
type Options struct {
	Interval time.Duration
	Log      logging.Logger
	OnResult ResultFunc
}

type sendFunc func(ctx context.Context, action models.LightAction) (string, error)

// machine is the debounce state machine shared by Light and Fleet.
type machine struct {
	target   string
	interval time.Duration
	log      logging.Logger
	onResult ResultFunc
	send     sendFunc
	ack      func(action models.LightAction)

	mu       sync.Mutex
	state    State
	pending  models.LightAction
	inflight int
	timer    *time.Timer
	lastAck  string
	lastErr  error
	closed   bool
}

func newMachine(target string, opts Options, send sendFunc, ack func(models.LightAction)) *machine {
	m := &machine{
		target:   target,
		interval: opts.Interval,
		log:      opts.Log,
		onResult: opts.OnResult,
		send:     send,
		ack:      ack,
	}
	if m.interval <= 0 {
		m.interval = DefaultInterval
	}
	if m.log == nil {
		m.log = logging.Nop()
	}
	return m
}

// queue runs change under the lock, merges the action it returns into the
// pending one and (re)arms the timer.
func (m *machine) queue(change func() models.LightAction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	a := change()
	if a.IsEmpty() {
		return
	}
	m.pending = m.pending.Merge(a)
	m.state = StatePendingSend

	if m.timer == nil {
		m.timer = time.AfterFunc(m.interval, m.fire)
	} else {
		m.timer.Reset(m.interval)
	}
}

func (m *machine) fire() {
	_ = m.flush(context.Background())
}

// flush sends the pending action now. It is a no-op when nothing is pending.
func (m *machine) flush(ctx context.Context) error {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.pending.IsEmpty() {
		m.mu.Unlock()
		return nil
	}
	action := m.pending
	m.pending = models.LightAction{}
	m.inflight++
	m.state = StateSent
	m.mu.Unlock()

	m.log.Debug(ctx, "sending light action", "target", m.target, "action", action.String())
	msg, err := m.send(ctx, action)
	if err == nil && m.ack != nil {
		m.ack(action)
	}

	m.mu.Lock()
	m.inflight--
	if err != nil {
		m.lastErr = err
	} else {
		m.lastAck = msg
		m.lastErr = nil
	}
	switch {
	case !m.pending.IsEmpty():
		m.state = StatePendingSend
	case m.inflight == 0:
		m.state = StateIdle
	default:
		m.state = StateSent
	}
	onResult := m.onResult
	m.mu.Unlock()

	if err != nil {
		m.log.Warn(ctx, "light action failed", "target", m.target, "error", err)
	}
	if onResult != nil {
		onResult(m.target, msg, err)
	}
	return err
}

func (m *machine) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.pending = models.LightAction{}
	if m.inflight == 0 {
		m.state = StateIdle
	}
}

func (m *machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Pending returns the action that would be sent next.
func (m *machine) Pending() models.LightAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.LightAction{}.Merge(m.pending)
}

// LastAck is the message of the most recent successful response.
func (m *machine) LastAck() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAck
}

// LastError is the error of the most recent response, nil after a success.
func (m *machine) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}
