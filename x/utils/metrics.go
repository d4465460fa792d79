package utils

import (
	"time"

	"github.com/iov-one/tokenswap"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed messages by path and outcome
// and observes how long the processing took.
type Metrics struct {
	txs     *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

var _ tokenswap.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator. All collectors are registered with
// given registerer.
func NewMetrics(reg prometheus.Registerer) Metrics {
	m := Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tokenswap",
			Subsystem: "tx",
			Name:      "processed_total",
			Help:      "Number of processed transactions.",
		}, []string{"mode", "path", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tokenswap",
			Subsystem: "tx",
			Name:      "duration_seconds",
			Help:      "Time it took to process a transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"mode", "path"}),
	}
	reg.MustRegister(m.txs, m.latency)
	return m
}

func (m Metrics) Check(ctx tokenswap.Context, store tokenswap.KVStore, tx tokenswap.Tx, next tokenswap.Checker) (*tokenswap.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", tx, start, err)
	return res, err
}

func (m Metrics) Deliver(ctx tokenswap.Context, store tokenswap.KVStore, tx tokenswap.Tx, next tokenswap.Deliverer) (*tokenswap.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

func (m Metrics) observe(mode string, tx tokenswap.Tx, start time.Time, err error) {
	path := tokenswap.GetPath(tx)
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.txs.WithLabelValues(mode, path, result).Inc()
	m.latency.WithLabelValues(mode, path).Observe(time.Since(start).Seconds())
}
