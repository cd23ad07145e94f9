// Package metrics holds the Prometheus collectors shared by the engine, the
// REST client and the HTTP server. Collectors register with the default
// registry at init and are exported through /metrics by the server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueriesTotal counts answered questions by the grammar that produced
	// the answer.
	// Labels: grammar (find_entity, subject_prop, none)
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nlquery",
		Name:      "queries_total",
		Help:      "Total questions answered by grammar",
	}, []string{"grammar"})

	// EndpointRequestsTotal counts outbound requests by endpoint and status.
	// Labels: endpoint (wikidata_api, sparql, corenlp), status (HTTP code or "error")
	EndpointRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nlquery",
		Name:      "endpoint_requests_total",
		Help:      "Total outbound requests by endpoint and status",
	}, []string{"endpoint", "status"})

	// EndpointLatencySeconds measures outbound request latency.
	// Labels: endpoint
	EndpointLatencySeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nlquery",
		Name:      "endpoint_latency_seconds",
		Help:      "Outbound request latency by endpoint",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})
)

// StatusError is the status label of requests that got no HTTP response.
const StatusError = "error"

// ObserveRequest records one outbound request. A status of 0 means the
// request failed before a response arrived.
func ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	label := StatusError
	if status > 0 {
		label = strconv.Itoa(status)
	}
	EndpointRequestsTotal.WithLabelValues(endpoint, label).Inc()
	EndpointLatencySeconds.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
