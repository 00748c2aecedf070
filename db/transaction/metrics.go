package transaction

import "github.com/prometheus/client_golang/prometheus"

var (
	poolWorkersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mongo",
			Subsystem: "txn",
			Name:      "pool_workers",
			Help:      "Number of transaction bodies currently in flight.",
		})

	txnAttemptsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mongo",
			Subsystem: "txn",
			Name:      "attempts_total",
			Help:      "Total transaction attempts, including retries.",
		})

	txnRetriesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mongo",
			Subsystem: "txn",
			Name:      "retries_total",
			Help:      "Transaction attempts retried after a transient error.",
		})

	sessionYieldsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mongo",
			Subsystem: "txn",
			Name:      "session_yields_total",
			Help:      "Times a session was released around a blocking sub-operation.",
		})
)

func init() {
	prometheus.MustRegister(poolWorkersGauge)
	prometheus.MustRegister(txnAttemptsCounter)
	prometheus.MustRegister(txnRetriesCounter)
	prometheus.MustRegister(sessionYieldsCounter)
}
