package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"revshare/pkg/common"
	pkgerrors "revshare/pkg/errors"
)

type stubCommand struct {
	invalid bool
}

func (c stubCommand) Validate() error {
	if c.invalid {
		return pkgerrors.NewValidationError("stub command is invalid")
	}
	return nil
}

type otherCommand struct{}

func (otherCommand) Validate() error { return nil }

func TestCommandBusDispatch(t *testing.T) {
	b := NewCommandBus()

	var handled Command
	err := b.Register(stubCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		handled = cmd
		return nil
	}))
	require.NoError(t, err)

	err = b.Send(context.Background(), stubCommand{})

	require.NoError(t, err)
	assert.Equal(t, stubCommand{}, handled)
}

func TestCommandBusRejectsDuplicateRegistration(t *testing.T) {
	b := NewCommandBus()
	noop := CommandHandlerFunc(func(ctx context.Context, cmd Command) error { return nil })

	require.NoError(t, b.Register(stubCommand{}, noop))
	err := b.Register(stubCommand{}, noop)

	assert.Error(t, err)
}

func TestCommandBusUnknownCommand(t *testing.T) {
	b := NewCommandBus()

	err := b.Send(context.Background(), otherCommand{})

	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestValidationMiddlewareBlocksInvalidCommands(t *testing.T) {
	b := NewCommandBus()
	b.Use(ValidationMiddleware())

	handled := false
	require.NoError(t, b.Register(stubCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		handled = true
		return nil
	})))

	err := b.Send(context.Background(), stubCommand{invalid: true})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.False(t, handled, "handler must not run for an invalid command")
}

func TestLoggingMiddlewareAttachesRunMetadata(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	b := NewCommandBus()
	b.Use(LoggingMiddleware(zap.New(core)))

	require.NoError(t, b.Register(stubCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		return nil
	})))

	ctx := common.WithTriggerID(common.EnrichContext(context.Background(), "run-42"), "做报表")
	require.NoError(t, b.Send(ctx, stubCommand{}))

	entries := logs.FilterMessage("command succeeded").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "run-42", fields["run_id"])
	assert.Equal(t, "做报表", fields["trigger_id"])
}

func TestMiddlewareRunsInRegistrationOrder(t *testing.T) {
	b := NewCommandBus()

	var order []string
	tag := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}
	b.Use(tag("outer"), tag("inner"))
	b.Use(LoggingMiddleware(zap.NewNop()))

	require.NoError(t, b.Register(stubCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		order = append(order, "handler")
		return nil
	})))

	require.NoError(t, b.Send(context.Background(), stubCommand{}))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
