package rabbitmq

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

func TestDecodeOrderEvent(t *testing.T) {
	event := OrderEvent{
		Type:       EventOrderCreated,
		OrderID:    "o-1",
		UserID:     "u-1",
		Status:     "pending",
		TotalPrice: 120.5,
		ItemCount:  3,
		OccurredAt: time.Now().UTC().Truncate(time.Second),
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	got, err := DecodeOrderEvent(body)
	require.NoError(t, err)
	assert.Equal(t, event, got)
}

func TestDecodeOrderEvent_Malformed(t *testing.T) {
	_, err := DecodeOrderEvent([]byte("not json"))
	assert.ErrorIs(t, err, ErrMalformedMessage)
	assert.True(t, isMalformed(err))

	_, err = DecodeOrderEvent([]byte(`{"type":"order.created"}`))
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestHandleOrderMessage(t *testing.T) {
	body, _ := json.Marshal(OrderEvent{Type: EventOrderStatusUpdated, OrderID: "o-2", Status: "shipped"})

	assert.NoError(t, HandleOrderMessage(amqp.Delivery{Body: body}))
	assert.Error(t, HandleOrderMessage(amqp.Delivery{Body: []byte("{}")}))
}

func TestPublish_WithoutChannel(t *testing.T) {
	c := &Client{}
	assert.Error(t, c.Publish("", OrderQueue, []byte("{}")))
	assert.Error(t, c.PublishOrderEvent(OrderEvent{Type: EventOrderCreated, OrderID: "o"}))
	assert.Error(t, c.ConsumeOrderEvents(HandleOrderMessage))
	assert.NoError(t, c.Close())
}
