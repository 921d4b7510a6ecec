// Package metrics exposes scan counters for Prometheus scraping.
package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EmbedsSeen = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attbot_embeds_seen_total",
		Help: "Embeds inspected across all scan passes.",
	})
	EmbedsRecognized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attbot_embeds_recognized_total",
		Help: "Embeds recognized as event embeds with usable attendees.",
	})
	EmbedsIgnored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attbot_embeds_ignored_total",
		Help: "Embeds skipped because no field label matched the vocabulary.",
	})
	EmbedsLowConfidence = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attbot_embeds_low_confidence_total",
		Help: "Embeds that matched the vocabulary but yielded no attendees.",
	})
	RecordsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attbot_records_updated_total",
		Help: "Attendance records created or replaced in the store.",
	})
	ScanFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attbot_scan_failures_total",
		Help: "Scan passes aborted because the embed source was unavailable.",
	})
)

// Serve starts the /metrics listener in the background. An empty address
// disables it.
func Serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Printf("Metrics listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server stopped: %v", err)
		}
	}()
}
