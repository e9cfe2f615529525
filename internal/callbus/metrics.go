package callbus

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CallsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_calls_dispatched_total",
			Help: "Total asynchronous contract calls dispatched",
		},
		[]string{"endpoint"},
	)
	CallsSucceeded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_calls_succeeded_total",
			Help: "Total dispatched contract calls that committed",
		},
		[]string{"endpoint"},
	)
	CallsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contract_calls_failed_total",
			Help: "Total dispatched contract calls that rolled back",
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(CallsDispatched)
	prometheus.MustRegister(CallsSucceeded)
	prometheus.MustRegister(CallsFailed)
}
