package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCommand struct {
	validateErr error
}

func (c *stubCommand) Validate() error { return c.validateErr }

type otherCommand struct{}

func (c *otherCommand) Validate() error { return nil }

type recordingHandler struct {
	calls int
	err   error
}

func (h *recordingHandler) Handle(_ context.Context, _ Command) error {
	h.calls++
	return h.err
}

func TestCommandBus_Send(t *testing.T) {
	cmdBus := NewCommandBus()
	handler := &recordingHandler{}
	require.NoError(t, cmdBus.Register(&stubCommand{}, handler))

	err := cmdBus.Send(context.Background(), &stubCommand{})

	require.NoError(t, err)
	assert.Equal(t, 1, handler.calls)
}

func TestCommandBus_ValidatesBeforeDispatch(t *testing.T) {
	cmdBus := NewCommandBus()
	handler := &recordingHandler{}
	require.NoError(t, cmdBus.Register(&stubCommand{}, handler))

	err := cmdBus.Send(context.Background(), &stubCommand{validateErr: errors.New("bad command")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "command validation failed")
	assert.Equal(t, 0, handler.calls)
}

func TestCommandBus_UnregisteredCommand(t *testing.T) {
	cmdBus := NewCommandBus()

	err := cmdBus.Send(context.Background(), &otherCommand{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
}

func TestCommandBus_DuplicateRegistration(t *testing.T) {
	cmdBus := NewCommandBus()
	require.NoError(t, cmdBus.Register(&stubCommand{}, &recordingHandler{}))

	err := cmdBus.Register(&stubCommand{}, &recordingHandler{})
	assert.Error(t, err)
}

func TestCommandBus_HandlerErrorPropagates(t *testing.T) {
	cmdBus := NewCommandBus()
	want := errors.New("handler exploded")
	require.NoError(t, cmdBus.Register(&stubCommand{}, &recordingHandler{err: want}))

	err := cmdBus.Send(context.Background(), &stubCommand{})
	assert.ErrorIs(t, err, want)
}

func TestPipeline_ExecutionOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	pipeline := NewPipeline(mw("outer"), mw("inner"))
	handler := pipeline.Execute(CommandHandlerFunc(func(context.Context, Command) error {
		order = append(order, "handler")
		return nil
	}))

	require.NoError(t, handler.Handle(context.Background(), &stubCommand{}))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestLoggingMiddleware_PassesThrough(t *testing.T) {
	inner := &recordingHandler{err: errors.New("downstream")}
	handler := LoggingMiddleware(zap.NewNop())(inner)

	err := handler.Handle(context.Background(), &stubCommand{})

	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestValidationMiddleware(t *testing.T) {
	inner := &recordingHandler{}
	handler := ValidationMiddleware()(inner)

	require.NoError(t, handler.Handle(context.Background(), &stubCommand{}))
	assert.Equal(t, 1, inner.calls)

	err := handler.Handle(context.Background(), &stubCommand{validateErr: errors.New("nope")})
	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}
