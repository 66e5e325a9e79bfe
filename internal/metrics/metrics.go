package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nekogravitycat/boat-rental-backend/internal/booking"
)

// Metrics owns a private registry with the HTTP and booking collectors.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	bookingsCreated       prometheus.Counter
	statusChanges         *prometheus.CounterVec
	confirmationConflicts prometheus.Counter
	priceRejections       prometheus.Counter
	cancellations         prometheus.Counter
	cancellationsRefused  prometheus.Counter
}

// New registers every collector under the given namespace.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings created in pending status.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_status_changes_total",
			Help:      "Booking status transitions by target status.",
		}, []string{"status"}),
		confirmationConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_confirmation_conflicts_total",
			Help:      "Confirmations rejected because of an overlapping confirmed booking.",
		}),
		priceRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_price_rejections_total",
			Help:      "Bookings rejected because the submitted total was out of tolerance.",
		}),
		cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_cancellations_total",
			Help:      "Bookings cancelled by their renter or an admin.",
		}),
		cancellationsRefused: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_cancellations_refused_total",
			Help:      "Cancellations refused inside the 48 hour window.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.bookingsCreated,
		m.statusChanges,
		m.confirmationConflicts,
		m.priceRejections,
		m.cancellations,
		m.cancellationsRefused,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records one sample per request, labelled by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// BookingObserver adapts the booking counters to booking.Observer.
func (m *Metrics) BookingObserver() booking.Observer {
	return bookingObserver{m: m}
}

type bookingObserver struct {
	m *Metrics
}

func (o bookingObserver) Created(*booking.Booking) {
	o.m.bookingsCreated.Inc()
}

func (o bookingObserver) StatusChanged(b *booking.Booking, _ booking.Status) {
	o.m.statusChanges.WithLabelValues(string(b.Status)).Inc()
}

func (o bookingObserver) ConfirmationConflict(string) {
	o.m.confirmationConflicts.Inc()
}

func (o bookingObserver) PriceRejected(string) {
	o.m.priceRejections.Inc()
}

func (o bookingObserver) Cancelled(*booking.Booking) {
	o.m.cancellations.Inc()
}

func (o bookingObserver) CancellationRefused(string) {
	o.m.cancellationsRefused.Inc()
}
