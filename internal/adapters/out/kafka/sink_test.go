package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessageWriter struct {
	mock.Mock
}

func (m *MockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockMessageWriter) Close() error {
	return m.Called().Error(0)
}

func TestNotificationSink_Deliver_WritesTheEnvelopeKeyedByRecipient(t *testing.T) {
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	recipient := kernel.NewUUID()
	event, err := notification.NewEvent(recipient, notification.TypeOrderReceived,
		notification.OrderReceived{OrderCode: "OD-1", GroupCode: "GR-1", Total: 1000}, now)
	require.NoError(t, err)

	var written []kafka.Message
	writer := &MockMessageWriter{}
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]kafka.Message) }).
		Return(nil)
	sink := NewNotificationSink(writer)

	err = sink.Deliver(context.Background(), event)

	require.NoError(t, err)
	require.Len(t, written, 1)
	msg := written[0]
	assert.Equal(t, recipient.String(), string(msg.Key))
	assert.Equal(t, now, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, HeaderEventType, msg.Headers[0].Key)
	assert.Equal(t, notification.TypeOrderReceived, string(msg.Headers[0].Value))

	var envelope notification.Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.Equal(t, event.ID.String(), envelope.EventID)
	assert.JSONEq(t, `{"orderCode":"OD-1","groupCode":"GR-1","shopId":"","total":1000}`, string(envelope.Payload))
}

func TestNotificationSink_Deliver_ReturnsWriterFailure(t *testing.T) {
	event, err := notification.NewEvent(kernel.NewUUID(), notification.TypeRefundIssued,
		notification.RefundOutcome{OrderCode: "OD-1"}, time.Now())
	require.NoError(t, err)
	writer := &MockMessageWriter{}
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker unavailable"))

	err = NewNotificationSink(writer).Deliver(context.Background(), event)

	assert.EqualError(t, err, "broker unavailable")
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, ParseBrokers(""))
}
