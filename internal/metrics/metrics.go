// Package metrics exposes forwarding counters as Prometheus collectors and
// pushes them to a Pushgateway at the end of a run.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/aneoconsulting/logship/internal/domain"
)

// JobName is the Pushgateway job label.
const JobName = "logship"

// Collector implements app.SendEventEmitter on a private registry.
type Collector struct {
	registry *prometheus.Registry

	eventsDelivered prometheus.Counter
	eventsLost      prometheus.Counter
	batches         *prometheus.CounterVec
	bytesSent       prometheus.Counter
	sendDuration    prometheus.Histogram
	lines           *prometheus.CounterVec
}

// NewCollector creates and registers the logship collectors.
func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.eventsDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "logship",
		Name:      "events_delivered_total",
		Help:      "CLEF events acknowledged by the ingestion endpoint",
	})
	c.eventsLost = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "logship",
		Name:      "events_lost_total",
		Help:      "CLEF events in batches that failed to post",
	})
	c.batches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "logship",
		Name:      "batches_total",
		Help:      "Batches posted, by result",
	}, []string{"result"})
	c.bytesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "logship",
		Name:      "bytes_sent_total",
		Help:      "Request body bytes of successful posts",
	})
	c.sendDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "logship",
		Name:      "send_duration_seconds",
		Help:      "Time spent posting one batch",
		Buckets:   prometheus.DefBuckets,
	})
	c.lines = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "logship",
		Name:      "lines_total",
		Help:      "Input lines, by outcome",
	}, []string{"outcome"})

	c.registry.MustRegister(c.eventsDelivered, c.eventsLost, c.batches, c.bytesSent, c.sendDuration, c.lines)
	return c
}

// OnSendSuccess records a delivered batch.
func (c *Collector) OnSendSuccess(events, bytesSent int, duration time.Duration) {
	c.eventsDelivered.Add(float64(events))
	c.batches.WithLabelValues("ok").Inc()
	c.bytesSent.Add(float64(bytesSent))
	c.sendDuration.Observe(duration.Seconds())
}

// OnSendError records a failed batch.
func (c *Collector) OnSendError(err error, events int) {
	c.eventsLost.Add(float64(events))
	c.batches.WithLabelValues("failed").Inc()
}

// ObserveReport records the line classification of a finished session.
func (c *Collector) ObserveReport(r domain.Report) {
	c.lines.WithLabelValues("event").Add(float64(r.Accepted))
	c.lines.WithLabelValues("malformed").Add(float64(r.Malformed))
	c.lines.WithLabelValues("non_event").Add(float64(r.NonEvents))
	c.lines.WithLabelValues("skipped").Add(float64(r.Skipped))
}


// Push sends the current values to the Pushgateway at url.
// grouping adds labels identifying the run (e.g. run number).
func (c *Collector) Push(ctx context.Context, url string, grouping map[string]string) error {
	p := push.New(url, JobName).Gatherer(c.registry)
	for k, v := range grouping {
		p = p.Grouping(k, v)
	}
	return p.PushContext(ctx)
}
