package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesDecodedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filmstrip_frames_decoded_total",
		Help: "Total number of filmstrip frames decoded",
	})

	FrameDecodeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filmstrip_frame_decode_failures_total",
		Help: "Total number of timestamps that failed to decode and kept their placeholder",
	})

	StaleDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmstrip_stale_deliveries_total",
		Help: "Decoded frames dropped instead of delivered, by reason",
	}, []string{"reason"})

	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "filmstrip_extraction_duration_seconds",
		Help:    "Wall time of one extraction request, from start to done",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})

	ActiveExtractions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "filmstrip_active_extractions",
		Help: "Number of extraction requests currently running",
	})
)

// Stale delivery reasons
const (
	ReasonCancelled = "cancelled"
	ReasonDetached  = "detached"
)
