package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
	TxRetries     *prometheus.CounterVec
}

type LedgerMetrics struct {
	Checkouts          *prometheus.CounterVec
	Settlements        *prometheus.CounterVec
	Splits             *prometheus.CounterVec
	BonusesGranted     prometheus.Counter
	CustomersSuspended prometheus.Counter
	SweepDuration      prometheus.Histogram
	EventsEmitted      *prometheus.CounterVec
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bnpl_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
		TxRetries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bnpl_tx_retries_total",
				Help: "Transactions replayed after a transient storage failure.",
			},
			[]string{"operation"},
		),
	}

	Ledger = LedgerMetrics{
		Checkouts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bnpl_checkouts_total",
				Help: "Checkout attempts by outcome.",
			},
			[]string{"status"},
		),
		Settlements: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bnpl_settlements_total",
				Help: "Installment settlement attempts by outcome.",
			},
			[]string{"status"},
		),
		Splits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bnpl_group_restructures_total",
				Help: "Loan splits and participant additions by operation and outcome.",
			},
			[]string{"operation", "status"},
		),
		BonusesGranted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bnpl_punctuality_bonuses_total",
				Help: "Punctuality bonuses credited on loan payoff.",
			},
		),
		CustomersSuspended: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bnpl_customers_suspended_total",
				Help: "Customers suspended by the risk sweep.",
			},
		),
		SweepDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bnpl_risk_sweep_duration_seconds",
				Help:    "Wall time of risk sweep runs.",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
		EventsEmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bnpl_domain_events_total",
				Help: "Domain events emitted by kind and delivery status.",
			},
			[]string{"kind", "status"},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordTxRetry(operation string) {
	DB.TxRetries.WithLabelValues(operation).Inc()
}

func RecordCheckout(status string) {
	Ledger.Checkouts.WithLabelValues(status).Inc()
}

func RecordSettlement(status string) {
	Ledger.Settlements.WithLabelValues(status).Inc()
}

func RecordRestructure(operation, status string) {
	Ledger.Splits.WithLabelValues(operation, status).Inc()
}

func RecordBonus() {
	Ledger.BonusesGranted.Inc()
}

func RecordSuspension() {
	Ledger.CustomersSuspended.Inc()
}

func RecordSweep(duration time.Duration) {
	Ledger.SweepDuration.Observe(duration.Seconds())
}

func RecordEvent(kind, status string) {
	Ledger.EventsEmitted.WithLabelValues(kind, status).Inc()
}
