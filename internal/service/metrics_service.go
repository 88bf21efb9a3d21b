package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the booking pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	bookingsTotal     prometheus.Counter
	bookingConflicts  prometheus.Counter
	bookingsRejected  *prometheus.CounterVec
	documentsUploaded prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	bookingsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookings_total",
		Help: "Total sessions booked",
	})

	bookingConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booking_conflicts_total",
		Help: "Bookings rejected because the slot was already held",
	})

	bookingsRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_rejected_total",
		Help: "Bookings rejected before insert, by reason",
	}, []string{"reason"})

	documentsUploaded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "documents_uploaded_total",
		Help: "Total approval documents uploaded",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, bookingsTotal, bookingConflicts, bookingsRejected, documentsUploaded, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:          registry,
		handler:           handler,
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		bookingsTotal:     bookingsTotal,
		bookingConflicts:  bookingConflicts,
		bookingsRejected:  bookingsRejected,
		documentsUploaded: documentsUploaded,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// CountBooking records a successful booking.
func (m *MetricsService) CountBooking() {
	if m == nil {
		return
	}
	m.bookingsTotal.Inc()
}

// CountBookingConflict records a slot collision.
func (m *MetricsService) CountBookingConflict() {
	if m == nil {
		return
	}
	m.bookingConflicts.Inc()
}

// CountBookingRejected records a pre-insert rejection by reason.
func (m *MetricsService) CountBookingRejected(reason string) {
	if m == nil {
		return
	}
	m.bookingsRejected.WithLabelValues(reason).Inc()
}

// CountDocumentUpload records a stored document.
func (m *MetricsService) CountDocumentUpload() {
	if m == nil {
		return
	}
	m.documentsUploaded.Inc()
}
