package nats

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNATSHeaderCarrier(t *testing.T) {
	c := NATSHeaderCarrier(make(nats.Header))
	c.Set("traceparent", "00-abc-def-01")

	assert.Equal(t, "00-abc-def-01", c.Get("traceparent"))
	assert.ElementsMatch(t, []string{"traceparent"}, c.Keys())
	assert.Empty(t, c.Get("missing"))
}

func TestNewMessage_EncodesAndPropagates(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	msg, err := newMessage(ctx, domain.SubjectAdCreated, "marketplace", domain.AdCreatedEvent{AdID: "ad1", Price: 25})
	require.NoError(t, err)

	assert.Equal(t, domain.SubjectAdCreated, msg.Subject)
	var decoded domain.AdCreatedEvent
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, "ad1", decoded.AdID)
	assert.NotEmpty(t, msg.Header.Get("traceparent"))
	assert.Equal(t, "application/json", msg.Header.Get(HeaderContentType))
	assert.Equal(t, "marketplace", msg.Header.Get(HeaderSource))
}

func TestNewMessage_MarshalFailure(t *testing.T) {
	_, err := newMessage(context.Background(), "x", "", make(chan int))
	assert.Error(t, err)
}
