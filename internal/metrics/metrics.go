package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "path"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests in flight",
		},
	)

	// Coupon metrics
	CouponRedemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupon_redemptions_total",
			Help: "Coupon evaluation outcomes by code",
		},
		[]string{"code", "outcome"},
	)
	CouponRaceLostTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coupon_race_lost_total",
			Help: "Reservations lost to a concurrent redemption at insert time",
		},
	)

	// Provisioning metrics
	SubscriptionsProvisionedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_provisioned_total",
			Help: "Subscriptions created, by plan and grant type",
		},
		[]string{"plan", "grant"},
	)
	TransactionWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_transaction_write_failures_total",
			Help: "Payment transaction inserts that failed after the subscription was created",
		},
	)

	// Payment gateway metrics
	GatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Payment gateway order-creation requests",
		},
		[]string{"status"},
	)
	GatewayRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "gateway_request_duration_seconds",
			Help: "Duration of payment gateway requests in seconds",
		},
	)

	// Fraud metrics
	SecurityEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "security_events_total",
			Help: "Security events recorded by the fraud detector",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestsInFlight)

	prometheus.MustRegister(CouponRedemptionsTotal)
	prometheus.MustRegister(CouponRaceLostTotal)

	prometheus.MustRegister(SubscriptionsProvisionedTotal)
	prometheus.MustRegister(TransactionWriteFailuresTotal)

	prometheus.MustRegister(GatewayRequestsTotal)
	prometheus.MustRegister(GatewayRequestDuration)

	prometheus.MustRegister(SecurityEventsTotal)

	prometheus.MustRegister(prometheus.NewGoCollector())
	prometheus.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
}
