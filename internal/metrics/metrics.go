// Package metrics exposes Prometheus instrumentation for slidescan.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slidescan_scans_total",
		Help: "Total number of video scans, by status",
	}, []string{"status"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "slidescan_scan_duration_seconds",
		Help:    "Wall-clock duration of full video scans",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})

	FramesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slidescan_frames_processed_total",
		Help: "Total number of frames decoded and fingerprinted across all scans",
	})

	SegmentsDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slidescan_segments_detected_total",
		Help: "Total number of slide transitions detected across all scans",
	})
)
