package metrics

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
)

const namespace = "finledger"

// Metrics holds the ledger Prometheus metrics and implements
// usecase.MetricsRecorder.
type Metrics struct {
	StatementsPosted   *prometheus.CounterVec
	StatementsRejected *prometheus.CounterVec
	StatementDuration  *prometheus.HistogramVec
	StatementAmount    *prometheus.HistogramVec
}

// New creates the ledger metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		StatementsPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statements_posted_total",
				Help:      "Total number of statements appended to the ledger",
			},
			[]string{"type"},
		),
		StatementsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "statements_rejected_total",
				Help:      "Total number of rejected statement requests by reason",
			},
			[]string{"type", "reason"},
		),
		StatementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "statement_duration_seconds",
				Help:      "Duration of successful statement postings",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"type"},
		),
		StatementAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "statement_amount",
				Help:      "Amounts of posted statements",
				Buckets:   []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"type"},
		),
	}
}

// StatementPosted records a successful append.
func (m *Metrics) StatementPosted(opType domain.OperationType, amount decimal.Decimal, duration time.Duration) {
	label := typeLabel(opType)

	m.StatementsPosted.WithLabelValues(label).Inc()
	m.StatementDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.StatementAmount.WithLabelValues(label).Observe(amount.InexactFloat64())
}

// StatementRejected records a rejected request.
func (m *Metrics) StatementRejected(opType domain.OperationType, reason string) {
	m.StatementsRejected.WithLabelValues(typeLabel(opType), reason).Inc()
}

// typeLabel keeps caller-supplied operation types out of label values.
func typeLabel(opType domain.OperationType) string {
	if !opType.IsValid() {
		return "unknown"
	}
	return opType.String()
}

// RegisterPoolStats exposes connection pool gauges for pool.
func RegisterPoolStats(reg prometheus.Registerer, pool *pgxpool.Pool) {
	factory := promauto.With(reg)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "db_connections_total",
		Help:      "Current number of database connections",
	}, func() float64 { return float64(pool.Stat().TotalConns()) })

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "db_connections_acquired",
		Help:      "Database connections currently in use",
	}, func() float64 { return float64(pool.Stat().AcquiredConns()) })
}
