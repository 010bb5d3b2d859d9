package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rentPostedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workmm_rent_posted_total",
		Help: "Monthly rent expenses posted by the settlement engine.",
	})
	debtPaymentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workmm_debt_payments_total",
		Help: "Debt repayments posted, automatic and manual.",
	})
	timerStopsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workmm_timer_stops_total",
		Help: "Work timers stopped and materialized into work logs.",
	})
)
