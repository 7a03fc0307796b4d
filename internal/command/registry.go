// Package command maps request command codes to response handlers and builds
// request messages.
//
// A handler is looked up by the code of the request that was sent, not by the
// code of the response, so a control handler also sees the panel's generic
// 0xEF result frame.
package command

import (
	"sort"
	"sync"

	"github.com/bft-labs/satelink/internal/domain"
	"github.com/bft-labs/satelink/internal/ports"
	"github.com/bft-labs/satelink/pkg/log"
)

// Request command codes outside the state and control tables.
const (
	CodeNewStates      byte = 0x7F
	CodeIntegraVersion byte = 0x7E
	CodeResult         byte = 0xEF
)

// Handler decodes the response to one request kind and publishes events.
// It returns an error wrapping domain.ErrMalformedResponse when the response
// cannot be decoded; nothing is published in that case.
type Handler interface {
	HandleResponse(resp domain.Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(resp domain.Message) error

// HandleResponse calls f(resp).
func (f HandlerFunc) HandleResponse(resp domain.Message) error {
	return f(resp)
}

// Registry maps request codes to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[byte]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[byte]Handler)}
}

// NewDefaultRegistry returns a registry with handlers for identification,
// new states, every state type and every control type.
func NewDefaultRegistry(pub ports.EventPublisher, logger ports.Logger) *Registry {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	r := NewRegistry()
	r.Register(CodeIntegraVersion, &VersionHandler{pub: pub, logger: logger})
	r.Register(CodeNewStates, &NewStatesHandler{pub: pub, logger: logger})
	for _, st := range domain.StateTypes() {
		r.Register(st.Code, &StateHandler{stateType: st, pub: pub, logger: logger})
	}
	for _, ct := range domain.ControlTypes() {
		r.Register(ct.Code, &ControlHandler{control: ct, pub: pub, logger: logger})
	}
	return r
}

// Register installs h for code, replacing any previous handler.
func (r *Registry) Register(code byte, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[code] = h
}

// Lookup returns the handler for code.
func (r *Registry) Lookup(code byte) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[code]
	return h, ok
}

// Codes returns the registered codes in ascending order.
func (r *Registry) Codes() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]byte, 0, len(r.handlers))
	for c := range r.handlers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
