package validator

import (
	"sync"

	"github.com/earthbucks/ebxnode/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusTransactionValidate        prometheus.Histogram
	prometheusTransactionValidateScripts prometheus.Histogram
	prometheusValidatedTransactions      prometheus.Counter
	prometheusInvalidTransactions        prometheus.Counter
)

var prometheusMetricsInitOnce sync.Once

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusTransactionValidate = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ebxnode",
			Subsystem: "validator",
			Name:      "transactions_validate",
			Help:      "Histogram of transaction validation",
			Buckets:   util.MetricsBucketsMicroSeconds,
		},
	)

	prometheusTransactionValidateScripts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ebxnode",
			Subsystem: "validator",
			Name:      "transactions_validate_signatures",
			Help:      "Histogram of transaction signature checks",
			Buckets:   util.MetricsBucketsMicroSeconds,
		},
	)

	prometheusValidatedTransactions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ebxnode",
			Subsystem: "validator",
			Name:      "transactions_validated",
			Help:      "Number of transactions passed to the validator",
		},
	)

	prometheusInvalidTransactions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ebxnode",
			Subsystem: "validator",
			Name:      "invalid_transactions",
			Help:      "Number of transactions found invalid by the validator",
		},
	)
}
