package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"revshare/pkg/common"
)

// Command represents an operation that changes state or produces output
type Command interface {
	Validate() error
}

// CommandHandler handles a specific command type
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) error
}

// CommandHandlerFunc is an adapter to allow functions to be used as handlers
type CommandHandlerFunc func(ctx context.Context, cmd Command) error

// Handle implements CommandHandler
func (f CommandHandlerFunc) Handle(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// Middleware wraps a handler with cross-cutting behavior
type Middleware func(next CommandHandler) CommandHandler

// CommandBus dispatches commands to their handlers. Every dispatch runs
// through the middleware pipeline configured with Use.
type CommandBus struct {
	handlers    map[reflect.Type]CommandHandler
	middlewares []Middleware
	mu          sync.RWMutex
}

// NewCommandBus creates a new command bus
func NewCommandBus() *CommandBus {
	return &CommandBus{
		handlers: make(map[reflect.Type]CommandHandler),
	}
}

// Use appends middleware to the dispatch pipeline. Middleware runs in
// the order it was added, outermost first.
func (b *CommandBus) Use(middlewares ...Middleware) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.middlewares = append(b.middlewares, middlewares...)
}

// Register registers a handler for a command type
func (b *CommandBus) Register(cmdType Command, handler CommandHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(cmdType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for command type %s", t.Name())
	}

	b.handlers[t] = handler
	return nil
}

// Send dispatches a command through the middleware pipeline to its
// handler.
func (b *CommandBus) Send(ctx context.Context, cmd Command) error {
	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(cmd)]
	pipeline := NewPipeline(b.middlewares...)
	b.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %T", ErrHandlerNotFound, cmd)
	}

	return pipeline.Execute(handler).Handle(ctx, cmd)
}

// LoggingMiddleware logs command execution with its duration. Run and
// trigger ids stamped on the context by the CLI layer are attached to
// every line so one invocation can be traced across log output.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			fields := append([]zap.Field{
				zap.String("type", reflect.TypeOf(cmd).Name()),
			}, contextFields(ctx)...)
			start := time.Now()
			logger.Info("executing command", fields...)

			err := next.Handle(ctx, cmd)
			if err != nil {
				logger.Error("command failed",
					append(fields, zap.Duration("duration", time.Since(start)), zap.Error(err))...)
				return err
			}

			logger.Info("command succeeded",
				append(fields, zap.Duration("duration", time.Since(start)))...)
			return nil
		})
	}
}

func contextFields(ctx context.Context) []zap.Field {
	meta := common.ExtractMetadata(ctx)
	fields := make([]zap.Field, 0, 2)
	if meta.RunID != "" {
		fields = append(fields, zap.String("run_id", meta.RunID))
	}
	if meta.TriggerID != "" {
		fields = append(fields, zap.String("trigger_id", meta.TriggerID))
	}
	return fields
}

// ValidationMiddleware rejects invalid commands before they reach the
// handler
func ValidationMiddleware() Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			if err := cmd.Validate(); err != nil {
				return err
			}
			return next.Handle(ctx, cmd)
		})
	}
}

// Pipeline chains multiple middleware together
type Pipeline struct {
	middlewares []Middleware
}

// NewPipeline creates a new middleware pipeline
func NewPipeline(middlewares ...Middleware) *Pipeline {
	return &Pipeline{
		middlewares: middlewares,
	}
}

// Execute wraps the handler with the pipeline's middleware, outermost
// first.
func (p *Pipeline) Execute(handler CommandHandler) CommandHandler {
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		handler = p.middlewares[i](handler)
	}
	return handler
}

// ErrHandlerNotFound is returned when no handler is registered for a
// dispatched command type.
var ErrHandlerNotFound = errors.New("command handler not found")
