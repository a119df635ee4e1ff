package analytics

import "github.com/prometheus/client_golang/prometheus"

// Metrics contadores Prometheus del reporte de velocidad. Un *Metrics nil no registra nada.
type Metrics struct {
	ItemsProcessed   prometheus.Counter
	EventsRejected   *prometheus.CounterVec
	OrphanCategories prometheus.Gauge
	RunDuration      prometheus.Histogram
}

// NewMetrics crea y registra los colectores en reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ItemsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_report_items_processed_total",
			Help: "Productos procesados por el reporte de velocidad.",
		}),
		EventsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_report_events_rejected_total",
			Help: "Movimientos descartados durante la normalización.",
		}, []string{"reason"}),
		OrphanCategories: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_report_orphan_categories",
			Help: "Categorías cuyo padre no existe en el catálogo leído (última corrida).",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "inventory_report_run_duration_seconds",
			Help:    "Duración de cada corrida del reporte.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}
	reg.MustRegister(m.ItemsProcessed, m.EventsRejected, m.OrphanCategories, m.RunDuration)
	return m
}

func (m *Metrics) itemProcessed() {
	if m != nil {
		m.ItemsProcessed.Inc()
	}
}

func (m *Metrics) eventRejected(reason string) {
	if m != nil {
		m.EventsRejected.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) orphans(n int) {
	if m != nil {
		m.OrphanCategories.Set(float64(n))
	}
}

func (m *Metrics) observeRun(seconds float64) {
	if m != nil {
		m.RunDuration.Observe(seconds)
	}
}
