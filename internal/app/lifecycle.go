package app

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/satelink/internal/domain"
	"github.com/bft-labs/satelink/internal/ports"
)

// ShutdownTimeout is the maximum time Close waits for the loop to exit.
const ShutdownTimeout = 10 * time.Second

// State is the connection state of the communication engine.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnectedIdle
	StateAwaitingResponse
	StateFaulted
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnectedIdle:
		return "ConnectedIdle"
	case StateAwaitingResponse:
		return "AwaitingResponse"
	case StateFaulted:
		return "Faulted"
	default:
		return "Unknown"
	}
}

// validTransitions lists the allowed successors of each state.
// ConnectedIdle and Connecting may drop straight to Disconnected on close.
var validTransitions = map[State][]State{
	StateDisconnected:     {StateConnecting},
	StateConnecting:       {StateConnectedIdle, StateDisconnected},
	StateConnectedIdle:    {StateAwaitingResponse, StateFaulted, StateDisconnected},
	StateAwaitingResponse: {StateConnectedIdle, StateFaulted},
	StateFaulted:          {StateDisconnected},
}

// Lifecycle manages the engine state machine and the loop worker.
type Lifecycle struct {
	mu           sync.RWMutex
	state        State
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	abandoned    chan struct{} // closed once an abandoned wait returns
	logger       ports.Logger
	eventEmitter EventEmitter
}

// EventEmitter is called when the engine state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// NewLifecycle creates a new lifecycle manager in StateDisconnected.
func NewLifecycle(logger ports.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{
		state:        StateDisconnected,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo attempts to transition to a new state.
// Returns domain.ErrInvalidTransition if the transition is not valid.
func (l *Lifecycle) TransitionTo(newState State, reason string) error {
	l.mu.Lock()
	oldState := l.state

	allowed := false
	for _, s := range validTransitions[oldState] {
		if s == newState {
			allowed = true
			break
		}
	}
	if !allowed {
		l.mu.Unlock()
		return domain.ErrInvalidTransition
	}

	l.state = newState
	l.mu.Unlock()

	// Emit event outside of lock
	if l.eventEmitter != nil {
		l.eventEmitter.OnStateChange(oldState, newState, reason)
	}

	l.logger.Debug("state transition",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)

	return nil
}

// SetCancel stores the cancel function of the running loop.
func (l *Lifecycle) SetCancel(cancel context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancel = cancel
}

// Cancel stops the running loop, if any.
func (l *Lifecycle) Cancel() {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// AddWorker increments the worker count.
func (l *Lifecycle) AddWorker() {
	l.wg.Add(1)
}

// WorkerDone decrements the worker count.
func (l *Lifecycle) WorkerDone() {
	l.wg.Done()
}

// WaitWithTimeout waits for all workers to finish with a timeout.
// Returns domain.ErrShutdownTimeout if the timeout expires.
func (l *Lifecycle) WaitWithTimeout(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		l.mu.Lock()
		l.abandoned = done
		l.mu.Unlock()
		l.logger.Warn("shutdown timeout, abandoning communication loop",
			ports.Duration("timeout", timeout),
		)
		return domain.ErrShutdownTimeout
	}
}

// Draining reports whether a worker abandoned by WaitWithTimeout is still
// running. AddWorker must not be called until it returns false.
func (l *Lifecycle) Draining() bool {
	l.mu.RLock()
	abandoned := l.abandoned
	l.mu.RUnlock()
	if abandoned == nil {
		return false
	}
	select {
	case <-abandoned:
		return false
	default:
		return true
	}
}
