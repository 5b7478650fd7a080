package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tourmarket",
			Name:      "bookings_created_total",
			Help:      "The total number of bookings created",
		},
	)

	// CapacityRejections counts bookings refused because the departure day was full.
	CapacityRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tourmarket",
			Name:      "booking_capacity_rejections_total",
			Help:      "The total number of bookings rejected for lack of capacity",
		},
	)

	ReferenceCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tourmarket",
			Name:      "booking_reference_collisions_total",
			Help:      "The total number of generated booking references that were already taken",
		},
	)

	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tourmarket",
			Name:      "booking_transitions_total",
			Help:      "The total number of booking status changes",
		},
		[]string{"from", "to"},
	)

	EntityReviews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tourmarket",
			Name:      "entity_reviews_total",
			Help:      "The total number of category and destination reviews",
		},
		[]string{"kind", "outcome"},
	)

	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processed_total",
			Help:      "The total number of processed messages",
		},
		[]string{"topic", "handler"},
	)

	MessagesProcessingFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processing_failed_total",
			Help:      "The total number of message processing failures",
		},
		[]string{"topic", "handler"},
	)

	MessagesProcessingDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "messages",
			Name:       "processing_duration_seconds",
			Help:       "The total time spent processing messages",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"topic", "handler"},
	)
)
