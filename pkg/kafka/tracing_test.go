package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestKafkaHeaderCarrier_SetGetOverwrite(t *testing.T) {
	headers := []kafka.Header{
		{Key: "session_id", Value: []byte("sess-1")},
	}
	carrier := &KafkaHeaderCarrier{headers: &headers}

	assert.Equal(t, "sess-1", carrier.Get("session_id"))
	assert.Empty(t, carrier.Get("missing"))

	carrier.Set("request_id", "req-9")
	assert.Equal(t, "req-9", carrier.Get("request_id"))

	// Set on an existing key must replace, not append a second header.
	carrier.Set("session_id", "sess-2")
	assert.Equal(t, "sess-2", carrier.Get("session_id"))
	assert.Len(t, headers, 2)
}

func TestKafkaHeaderCarrier_Keys(t *testing.T) {
	headers := []kafka.Header{
		{Key: "a", Value: []byte("1")},
		{Key: "b", Value: []byte("2")},
	}
	carrier := &KafkaHeaderCarrier{headers: &headers}

	assert.ElementsMatch(t, []string{"a", "b"}, carrier.Keys())
}

func TestKafkaHeaderCarrier_PropagatorRoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	headers := []kafka.Header{}
	carrier := &KafkaHeaderCarrier{headers: &headers}
	carrier.Set("traceparent", traceparent)

	assert.Equal(t, traceparent, carrier.Get("traceparent"))
}

func TestKafkaHeaderCarrier_Empty(t *testing.T) {
	headers := []kafka.Header{}
	carrier := &KafkaHeaderCarrier{headers: &headers}

	assert.Empty(t, carrier.Keys())
	assert.Empty(t, carrier.Get("anything"))
}
