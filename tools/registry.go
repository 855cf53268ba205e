// Package tools hosts the operation registry that exposes analysis
// capabilities to the serving layer: a mapping from operation name to a
// handler taking raw JSON parameters and returning a result-or-error
// union. The serving layer owns routing and serialization; the registry
// owns binding, invocation, and the guarantee that no failure escapes an
// operation boundary.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Hinneman/opalseotool/analyzer"
)

// Handler executes one operation against raw JSON parameters. It returns
// either the operation's result object or an analyzer.ErrorResult.
type Handler func(ctx context.Context, params json.RawMessage) any

// Registry maps operation names to handlers. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *zap.Logger
}

// NewRegistry returns an empty Registry that logs through the given
// logger. A nil logger disables logging.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Register adds a handler under the given operation name, replacing any
// previous registration.
func (r *Registry) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// Operations returns the registered operation names in sorted order.
func (r *Registry) Operations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch invokes the named operation. Unknown operation names and
// recovered panics come back as analyzer.ErrorResult; Dispatch itself
// never panics and never returns nil.
func (r *Registry) Dispatch(ctx context.Context, name string, params json.RawMessage) (result any) {
	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		return analyzer.ErrorResult{Error: fmt.Sprintf("Unknown operation %q", name)}
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("operation panicked",
				zap.String("operation", name),
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)
			result = analyzer.ErrorResult{Error: fmt.Sprintf("An unexpected error occurred: %v", rec)}
		}
	}()

	return handler(ctx, params)
}
