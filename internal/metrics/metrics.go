// Package metrics exposes Prometheus counters for a running station.
//
// A nil *Metrics is valid and records nothing, so callers never need to check
// whether metrics are enabled.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "radio_station"

// Metrics contains all Prometheus metrics for a station session
type Metrics struct {
	FramesSent     prometheus.Counter
	FramesReceived prometheus.Counter
	FramesLate     prometheus.Counter
	SourceCycles   prometheus.Counter
	PacingLag      prometheus.Histogram
}

// New creates the station metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FramesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Audio frames sent to the voice server",
		}),
		FramesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Voice packets received from the server and discarded",
		}),
		FramesLate: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_late_total",
			Help:      "Audio frames that were ready only after their scheduled send time",
		}),
		SourceCycles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_cycles_total",
			Help:      "Times the audio source was opened",
		}),
		PacingLag: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pacing_lag_seconds",
			Help:      "How far behind schedule late frames were sent",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) FrameSent() {
	if m == nil {
		return
	}
	m.FramesSent.Inc()
}

func (m *Metrics) FrameReceived() {
	if m == nil {
		return
	}
	m.FramesReceived.Inc()
}

// FrameLate records a frame sent lag behind its schedule.
func (m *Metrics) FrameLate(lag time.Duration) {
	if m == nil {
		return
	}
	m.FramesLate.Inc()
	m.PacingLag.Observe(lag.Seconds())
}

func (m *Metrics) SourceCycle() {
	if m == nil {
		return
	}
	m.SourceCycles.Inc()
}

// Serve exposes the metrics gathered by g on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
