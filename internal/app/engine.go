package app

import (
	"bufio"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bft-labs/satelink/internal/command"
	"github.com/bft-labs/satelink/internal/domain"
	"github.com/bft-labs/satelink/internal/frame"
	"github.com/bft-labs/satelink/internal/ports"
	"github.com/bft-labs/satelink/internal/queue"
)

// DefaultTimeout bounds a single write or read.
const DefaultTimeout = 5 * time.Second

// EngineConfig contains configuration for the communication loop.
type EngineConfig struct {
	// Timeout bounds each write and each read. Failed connects are retried
	// no sooner than twice this value after the attempt started.
	Timeout time.Duration
	// WatchdogInterval is the watchdog tick period.
	WatchdogInterval time.Duration
	// Checksum enables the panel frame checksum.
	Checksum bool
	// QueueCapacity bounds the send queue.
	QueueCapacity int
}

func (c EngineConfig) withDefaults() EngineConfig {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.WatchdogInterval <= 0 {
		c.WatchdogInterval = DefaultWatchdogInterval
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = queue.DefaultCapacity
	}
	return c
}

// Engine owns the panel connection. A single loop goroutine takes requests
// off the send queue, writes each one, waits for its response and hands that
// to the handler registered for the request code.
type Engine struct {
	config    EngineConfig
	transport ports.Transport
	registry  *command.Registry
	queue     *queue.SendQueue
	codec     frame.Codec
	lifecycle *Lifecycle
	watchdog  *Watchdog
	logger    ports.Logger

	// conn is published so the watchdog and Stop can interrupt blocked I/O.
	// Only the loop stores it.
	conn    atomic.Pointer[liveConn]
	running atomic.Bool

	shutdownTimeout time.Duration

	mu             sync.Mutex
	watchdogCancel context.CancelFunc
	watchdogDone   chan struct{}

	sessionMu      sync.RWMutex
	integraType    domain.IntegraType
	integraVersion string
}

// NewEngine creates an engine. It does not connect until Start.
func NewEngine(
	config EngineConfig,
	transport ports.Transport,
	registry *command.Registry,
	logger ports.Logger,
	emitter EventEmitter,
) *Engine {
	config = config.withDefaults()
	logger = ports.WithFields(logger, ports.String("component", "engine"))
	e := &Engine{
		config:    config,
		transport: transport,
		registry:  registry,
		queue:     queue.New(config.QueueCapacity),
		codec:     frame.Codec{Checksum: config.Checksum, Logger: logger},
		lifecycle: NewLifecycle(logger, emitter),
		logger:    logger,

		shutdownTimeout: ShutdownTimeout,
	}
	e.watchdog = NewWatchdog(config.Timeout, config.WatchdogInterval, e.interrupt, logger)
	return e
}

// Start launches the loop and the watchdog and queues the identification
// request. The loop runs until Stop or until ctx is cancelled.
func (e *Engine) Start(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return domain.ErrAlreadyOpen
	}
	if e.lifecycle.Draining() {
		e.running.Store(false)
		return fmt.Errorf("%w: previous communication loop still running", domain.ErrShutdownTimeout)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	e.lifecycle.SetCancel(cancel)

	// The watchdog outlives the loop so it can still break a blocked read
	// while the loop is shutting down.
	wdCtx, wdCancel := context.WithCancel(context.Background())
	wdDone := make(chan struct{})
	e.mu.Lock()
	e.watchdogCancel = wdCancel
	e.watchdogDone = wdDone
	e.mu.Unlock()
	go func() {
		defer close(wdDone)
		e.watchdog.Run(wdCtx)
	}()

	e.lifecycle.AddWorker()
	go e.run(loopCtx)

	e.queue.Put(loopCtx, command.IntegraVersionRequest())
	e.logger.Info("communication engine started",
		ports.String("transport", e.transport.String()),
		ports.Duration("timeout", e.config.Timeout),
	)
	return nil
}

// Stop shuts the loop down, abandoning in-flight I/O, drops pending requests
// and resets the session. If the loop does not exit within the shutdown
// timeout Stop returns domain.ErrShutdownTimeout and Start keeps failing
// until it does.
func (e *Engine) Stop() error {
	if !e.running.CompareAndSwap(true, false) {
		return domain.ErrNotOpen
	}

	e.lifecycle.Cancel()
	e.interrupt()
	err := e.lifecycle.WaitWithTimeout(e.shutdownTimeout)

	e.mu.Lock()
	wdCancel, wdDone := e.watchdogCancel, e.watchdogDone
	e.watchdogCancel, e.watchdogDone = nil, nil
	e.mu.Unlock()
	if wdCancel != nil {
		wdCancel()
		<-wdDone
	}

	e.queue.Clear()
	e.resetSession()
	e.logger.Info("communication engine stopped")
	return err
}

// Running reports whether Start has been called without a matching Stop.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Send queues m, see queue.SendQueue.Put.
func (e *Engine) Send(ctx context.Context, m domain.Message) bool {
	ok := e.queue.Put(ctx, m)
	if ok {
		e.logger.Debug("command enqueued", ports.String("message", m.String()))
	} else {
		e.logger.Warn("command not enqueued", ports.String("message", m.String()), ports.Err(ctx.Err()))
	}
	return ok
}

// OnEvent updates the session from identification events.
func (e *Engine) OnEvent(ev domain.Event) {
	v, ok := ev.(domain.IntegraVersionEvent)
	if !ok {
		return
	}
	e.sessionMu.Lock()
	e.integraType = v.IntegraType()
	e.integraVersion = v.Version
	e.sessionMu.Unlock()

	e.logger.Info("connection initialized",
		ports.String("type", v.IntegraType().String()),
		ports.String("version", v.Version),
	)
}

// IsConnected reports whether a connection is open.
func (e *Engine) IsConnected() bool {
	return e.conn.Load() != nil
}

// IsInitialized reports whether the panel has identified itself on the
// current connection.
func (e *Engine) IsInitialized() bool {
	return e.IntegraType() != domain.IntegraUnknown
}

// IntegraType returns the identified panel variant.
func (e *Engine) IntegraType() domain.IntegraType {
	e.sessionMu.RLock()
	defer e.sessionMu.RUnlock()
	return e.integraType
}

// IntegraVersion returns the identified firmware version, empty until known.
func (e *Engine) IntegraVersion() string {
	e.sessionMu.RLock()
	defer e.sessionMu.RUnlock()
	return e.integraVersion
}

// State returns the engine state.
func (e *Engine) State() State {
	return e.lifecycle.State()
}

// Pending returns the queued requests, head first.
func (e *Engine) Pending() []domain.Message {
	return e.queue.Snapshot()
}

// Timeouts returns how many I/O attempts the watchdog aborted.
func (e *Engine) Timeouts() int64 {
	return e.watchdog.Timeouts()
}

func (e *Engine) run(ctx context.Context) {
	defer e.lifecycle.WorkerDone()
	e.logger.Info("communication loop started")

	for ctx.Err() == nil {
		if err := e.processNext(ctx); err != nil {
			e.disconnect(ctx, err)
		}
	}

	if c := e.conn.Swap(nil); c != nil {
		_ = c.Close()
		e.setState(StateDisconnected, "closed")
	}
	e.resetSession()
	e.logger.Info("communication loop stopped")
}

// processNext handles one queued request. A non-nil error means the
// connection is unusable.
func (e *Engine) processNext(ctx context.Context) error {
	msg, err := e.queue.Take(ctx)
	if err != nil {
		return nil
	}

	conn := e.conn.Load()
	if conn == nil {
		if conn = e.connect(ctx, msg); conn == nil {
			return nil
		}
	}

	handler, ok := e.registry.Lookup(msg.Command())
	if !ok {
		e.logger.Error("dropping command",
			ports.Err(fmt.Errorf("%w: %02X", domain.ErrUnsupportedCommand, msg.Command())),
			ports.String("message", msg.String()),
		)
		return nil
	}

	e.setState(StateAwaitingResponse, "sending "+msg.String())
	defer e.watchdog.Stop()

	raw := e.codec.Encode(msg)
	e.logger.Debug("sending message", ports.String("message", msg.String()), ports.Hex("frame", raw))
	e.watchdog.Start()
	if _, err := conn.Write(raw); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	e.watchdog.Start()
	resp, err := conn.decoder.ReadMessage(conn.reader)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	e.watchdog.Stop()

	e.logger.Debug("got response", ports.String("message", resp.String()))
	e.handle(handler, msg, resp)
	e.setState(StateConnectedIdle, "response handled")
	return nil
}

// connect opens a connection for msg. On failure msg goes back to the queue
// head and connect waits out the rest of the reconnect interval.
func (e *Engine) connect(ctx context.Context, msg domain.Message) *liveConn {
	e.setState(StateConnecting, "connecting to "+e.transport.String())
	start := time.Now()

	rwc, err := e.transport.Connect(ctx)
	if err == nil && ctx.Err() != nil {
		_ = rwc.Close()
		err = ctx.Err()
	}
	if err != nil {
		e.setState(StateDisconnected, "connect failed")
		if ctx.Err() != nil {
			return nil
		}
		e.queue.PushFront(msg)
		e.logger.Error("connect failed", ports.String("transport", e.transport.String()), ports.Err(err))

		wait := 2*e.config.Timeout - time.Since(start)
		if wait > 0 {
			t := time.NewTimer(wait)
			defer t.Stop()
			select {
			case <-t.C:
			case <-ctx.Done():
			}
		}
		return nil
	}

	c := newLiveConn(rwc, e.codec.NewDecoder())
	e.conn.Store(c)
	// Stop may have run between Connect returning and the Store above.
	if ctx.Err() != nil {
		_ = c.Close()
	}
	e.setState(StateConnectedIdle, "connected")
	e.logger.Info("connected", ports.String("transport", e.transport.String()))
	return c
}

// handle runs the response handler, containing any panic.
func (e *Engine) handle(h command.Handler, req, resp domain.Message) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("response handler panicked",
				ports.Any("panic", r),
				ports.String("request", req.String()),
				ports.String("response", resp.String()),
			)
		}
	}()
	if err := h.HandleResponse(resp); err != nil {
		e.logger.Error("dropping response",
			ports.Err(err),
			ports.String("request", req.String()),
			ports.String("response", resp.String()),
		)
	}
}

// disconnect releases the connection after an I/O failure. Pending requests
// are dropped and the panel must identify itself again, so the
// identification request is queued while the loop keeps running.
func (e *Engine) disconnect(ctx context.Context, cause error) {
	e.setState(StateFaulted, cause.Error())
	e.logger.Warn("disconnecting", ports.Err(cause))

	if c := e.conn.Swap(nil); c != nil {
		_ = c.Close()
	}
	e.queue.Clear()
	e.resetSession()

	if ctx.Err() == nil && !e.IsInitialized() {
		e.queue.PushFront(command.IntegraVersionRequest())
	}
	e.setState(StateDisconnected, "disconnected")
}

// interrupt closes the live connection, failing any blocked Read or Write.
func (e *Engine) interrupt() {
	if c := e.conn.Load(); c != nil {
		_ = c.Close()
	}
}

func (e *Engine) resetSession() {
	e.sessionMu.Lock()
	e.integraType = domain.IntegraUnknown
	e.integraVersion = ""
	e.sessionMu.Unlock()
}

func (e *Engine) setState(s State, reason string) {
	if err := e.lifecycle.TransitionTo(s, reason); err != nil {
		e.logger.Warn("unexpected state transition",
			ports.String("from", e.lifecycle.State().String()),
			ports.String("to", s.String()),
			ports.Err(err),
		)
	}
}

// liveConn is one open connection with its read buffer and decoder.
type liveConn struct {
	ports.Conn
	reader  *bufio.Reader
	decoder *frame.Decoder

	once     sync.Once
	closeErr error
}

func newLiveConn(rwc ports.Conn, decoder *frame.Decoder) *liveConn {
	return &liveConn{Conn: rwc, reader: bufio.NewReader(rwc), decoder: decoder}
}

// Close closes the underlying stream once.
func (c *liveConn) Close() error {
	c.once.Do(func() { c.closeErr = c.Conn.Close() })
	return c.closeErr
}
