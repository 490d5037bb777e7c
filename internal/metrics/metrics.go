package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллекторы Prometheus сервиса
// Все методы безопасны для nil, чтобы компоненты работали без метрик
type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	realtimeEvents *prometheus.CounterVec
	boardReloads   prometheus.Counter
	boardMoves     *prometheus.CounterVec
	boardSlots     prometheus.Gauge
	boardBound     prometheus.Gauge
}

// New создаёт и регистрирует коллекторы
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		realtimeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "realtime_events_total",
			Help:      "Change-feed events by collection and action.",
		}, []string{"collection", "action"}),
		boardReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_reloads_total",
			Help:      "Full reconciliation reloads of the slot board.",
		}),
		boardMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "board_moves_total",
			Help:      "Drag-and-drop moves by kind and result.",
		}, []string{"kind", "result"}),
		boardSlots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "board_slots",
			Help:      "Slots currently held by the board.",
		}),
		boardBound: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "board_bound_appointments",
			Help:      "Appointments with a bound customer on the board.",
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.realtimeEvents,
		m.boardReloads,
		m.boardMoves,
		m.boardSlots,
		m.boardBound,
	)

	return m
}

// ObserveHTTP записывает HTTP запрос
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveEvent считает событие ленты изменений
func (m *Metrics) ObserveEvent(collection, action string) {
	if m == nil {
		return
	}
	m.realtimeEvents.WithLabelValues(collection, action).Inc()
}

// IncReload считает полную перезагрузку доски
func (m *Metrics) IncReload() {
	if m == nil {
		return
	}
	m.boardReloads.Inc()
}

// ObserveMove считает перенос: kind = customer|slot, result = ok|rejected|rolled_back
func (m *Metrics) ObserveMove(kind, result string) {
	if m == nil {
		return
	}
	m.boardMoves.WithLabelValues(kind, result).Inc()
}

// SetBoardSize обновляет размер доски
func (m *Metrics) SetBoardSize(slots, bound int) {
	if m == nil {
		return
	}
	m.boardSlots.Set(float64(slots))
	m.boardBound.Set(float64(bound))
}
