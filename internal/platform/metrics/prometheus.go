package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	OrdersCreated      prometheus.Counter
	OrderTransitions   *prometheus.CounterVec
	OrderRejections    *prometheus.CounterVec
	FavoriteToggles    *prometheus.CounterVec
	FavoriteRollbacks  prometheus.Counter
	ReconcileLatency   prometheus.Histogram
	HTTPRequestLatency *prometheus.HistogramVec
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Total number of orders created.",
		}),
		OrderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Order status transitions applied, by source and target status.",
		}, []string{"from", "to"}),
		OrderRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transition_rejections_total",
			Help:      "Rejected order status transitions, by reason.",
		}, []string{"reason"}),
		FavoriteToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorite_toggles_total",
			Help:      "Favorite toggles by reconciliation outcome.",
		}, []string{"outcome"}),
		FavoriteRollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorite_rollbacks_total",
			Help:      "Local favorite toggles reverted after a failed reconciliation.",
		}),
		ReconcileLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "favorite_reconcile_seconds",
			Help:      "Latency of authoritative favorite confirmations.",
			Buckets:   prometheus.DefBuckets,
		}),
		HTTPRequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_latency_seconds",
			Help:      "Latency of HTTP requests by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}

	registry.MustRegister(
		m.OrdersCreated,
		m.OrderTransitions,
		m.OrderRejections,
		m.FavoriteToggles,
		m.FavoriteRollbacks,
		m.ReconcileLatency,
		m.HTTPRequestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Server exposes /metrics for a registry.
type Server struct {
	log    logger.Logger
	server *http.Server
}

func NewServer(port string, registry *prometheus.Registry, log logger.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &Server{
		log: log,
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (s *Server) Start() error {
	s.log.Infof("Prometheus metrics server listening on %s/metrics", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// The recording helpers below are no-ops on a nil *Metrics.

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
}

func (m *Metrics) OrderTransitioned(from, to string) {
	if m == nil {
		return
	}
	m.OrderTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) OrderRejected(reason string) {
	if m == nil {
		return
	}
	m.OrderRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) FavoriteReconciled(confirmed bool, took time.Duration) {
	if m == nil {
		return
	}
	m.ReconcileLatency.Observe(took.Seconds())
	if confirmed {
		m.FavoriteToggles.WithLabelValues("confirmed").Inc()
		return
	}
	m.FavoriteToggles.WithLabelValues("reverted").Inc()
	m.FavoriteRollbacks.Inc()
}

func (m *Metrics) HTTPRequest(route string, code int, took time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestLatency.WithLabelValues(route, strconv.Itoa(code)).Observe(took.Seconds())
}
