package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace/internal/adapters/out/memory"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationSink struct{ mock.Mock }

func (m *MockNotificationSink) Deliver(ctx context.Context, event notification.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func seedEvents(t *testing.T, store *memory.Store, n int) []notification.Event {
	t.Helper()
	events := make([]notification.Event, 0, n)
	for i := range n {
		e, err := notification.NewEvent(kernel.NewUUID(), notification.TypeOrderReceived,
			notification.OrderReceived{OrderCode: "OD" + string(rune('A'+i))}, now.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		events = append(events, e)
	}
	require.NoError(t, store.Create().OutboxRepository().Add(t.Context(), events...))
	return events
}

func TestDispatchOutboxCommandHandler_Handle(t *testing.T) {
	store := memory.NewStore()
	events := seedEvents(t, store, 3)

	sink := new(MockNotificationSink)
	sink.On("Deliver", mock.Anything, mock.MatchedBy(func(e notification.Event) bool { return e.ID == events[1].ID })).
		Return(errors.New("broker unavailable")).Once()
	sink.On("Deliver", mock.Anything, mock.Anything).Return(nil).Twice()

	cmd, err := commands.NewDispatchOutboxCommand(commands.DefaultOutboxBatchSize)
	require.NoError(t, err)
	h := commands.NewDispatchOutboxCommandHandler(outboxFactory{store}, sink, clock)

	result, err := h.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, commands.DispatchResult{Delivered: 2, Failed: 1}, result)
	sink.AssertExpectations(t)

	byID := map[kernel.UUID]notification.Event{}
	for _, e := range store.Outbox() {
		byID[e.ID] = e
	}
	assert.True(t, byID[events[0].ID].IsDispatched())
	assert.False(t, byID[events[1].ID].IsDispatched())
	assert.Equal(t, "broker unavailable", byID[events[1].ID].LastError)
	assert.Equal(t, 1, byID[events[1].ID].Attempts)

	t.Run("the failed event is retried on the next run", func(t *testing.T) {
		sink := new(MockNotificationSink)
		sink.On("Deliver", mock.Anything, mock.MatchedBy(func(e notification.Event) bool { return e.ID == events[1].ID })).
			Return(nil).Once()
		h := commands.NewDispatchOutboxCommandHandler(outboxFactory{store}, sink, clock)

		result, err := h.Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, commands.DispatchResult{Delivered: 1}, result)
		sink.AssertExpectations(t)
	})
}

func TestDispatchOutboxCommandHandler_BatchSize(t *testing.T) {
	store := memory.NewStore()
	seedEvents(t, store, 3)
	sink := new(MockNotificationSink)
	sink.On("Deliver", mock.Anything, mock.Anything).Return(nil).Twice()

	cmd, err := commands.NewDispatchOutboxCommand(2)
	require.NoError(t, err)
	h := commands.NewDispatchOutboxCommandHandler(outboxFactory{store}, sink, clock)

	result, err := h.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Delivered)
	sink.AssertExpectations(t)
}

func TestNewDispatchOutboxCommand(t *testing.T) {
	cmd, err := commands.NewDispatchOutboxCommand(commands.DefaultOutboxBatchSize)
	require.NoError(t, err)
	assert.Equal(t, commands.DefaultOutboxBatchSize, cmd.BatchSize())

	_, err = commands.NewDispatchOutboxCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	h := commands.NewDispatchOutboxCommandHandler(outboxFactory{memory.NewStore()}, new(MockNotificationSink), clock)
	_, err = h.Handle(t.Context(), commands.DispatchOutboxCommand{})
	require.ErrorIs(t, err, commands.ErrDispatchOutboxCommandIsNotConstructed)
}
