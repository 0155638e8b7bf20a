// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "holoholo",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "holoholo",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	Checkouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "holoholo",
		Name:      "checkouts_total",
		Help:      "Checkout attempts by result.",
	}, []string{"result"})

	DroppedCartLines = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "holoholo",
		Name:      "checkout_dropped_lines_total",
		Help:      "Cart lines left out of an order, by reason.",
	}, []string{"reason"})
)

const (
	CheckoutPlaced        = "placed"
	CheckoutEmptyCart     = "empty_cart"
	CheckoutNoValidItems  = "no_valid_items"
	CheckoutStockConflict = "stock_conflict"
	CheckoutError         = "error"
)
