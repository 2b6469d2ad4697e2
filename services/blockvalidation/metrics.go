package blockvalidation

import (
	"sync"

	"github.com/earthbucks/ebxnode/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusBlockValidationValidateBlock prometheus.Histogram
	prometheusBlockValidationInvalidBlocks prometheus.Counter
	prometheusBlockValidationTransactions  prometheus.Counter
)

var prometheusMetricsInitOnce sync.Once

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusBlockValidationValidateBlock = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ebxnode",
			Subsystem: "blockvalidation",
			Name:      "validate_block",
			Help:      "Histogram of block validation",
			Buckets:   util.MetricsBucketsMilliSeconds,
		},
	)

	prometheusBlockValidationInvalidBlocks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ebxnode",
			Subsystem: "blockvalidation",
			Name:      "invalid_blocks",
			Help:      "Number of blocks found invalid",
		},
	)

	prometheusBlockValidationTransactions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ebxnode",
			Subsystem: "blockvalidation",
			Name:      "transactions",
			Help:      "Number of non-coinbase transactions applied to staged sets",
		},
	)
}
