package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metricsNamespace prefixes every Kafka metric this service exports, keeping
// the storefront's series separate from the platform services on shared
// dashboards.
const metricsNamespace = "storefront"

// Consumer-side metrics, labeled by topic and consumer group.
var (
	// ConsumerMessagesReceived counts messages fetched from the broker,
	// before any processing.
	ConsumerMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "kafka_consumer_messages_received_total",
			Help:      "Kafka messages fetched from the broker",
		},
		[]string{"topic", "consumer_group"},
	)

	// ConsumerMessagesProcessed counts messages whose handler succeeded.
	ConsumerMessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "kafka_consumer_messages_processed_total",
			Help:      "Kafka messages processed successfully",
		},
		[]string{"topic", "consumer_group"},
	)

	// ConsumerMessagesFailed counts messages that exhausted their retries
	// and were parked on the DLQ or dropped.
	ConsumerMessagesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "kafka_consumer_messages_failed_total",
			Help:      "Kafka messages that failed all handler retries",
		},
		[]string{"topic", "consumer_group"},
	)

	// ConsumerMessagesDuplicate counts redeliveries skipped by the
	// idempotency guard.
	ConsumerMessagesDuplicate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "kafka_consumer_messages_duplicate_total",
			Help:      "Kafka messages skipped as duplicates",
		},
		[]string{"topic", "consumer_group"},
	)

	// ConsumerDLQPublished counts poison messages forwarded to the
	// dead-letter topic.
	ConsumerDLQPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "kafka_consumer_dlq_published_total",
			Help:      "Kafka messages parked on the dead-letter queue",
		},
		[]string{"topic", "consumer_group"},
	)

	// ConsumerProcessingDuration observes handler latency per message.
	ConsumerProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "kafka_consumer_processing_duration_seconds",
			Help:      "Kafka message handler duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"topic", "consumer_group"},
	)
)

// Producer-side metrics, labeled by topic.
var (
	// ProducerMessagesPublished counts successful publishes.
	ProducerMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "kafka_producer_messages_published_total",
			Help:      "Kafka messages published",
		},
		[]string{"topic"},
	)

	// ProducerPublishErrors counts failed publishes.
	ProducerPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "kafka_producer_publish_errors_total",
			Help:      "Kafka publish failures",
		},
		[]string{"topic"},
	)

	// ProducerPublishDuration observes publish latency.
	ProducerPublishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "kafka_producer_publish_duration_seconds",
			Help:      "Kafka publish duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
)
