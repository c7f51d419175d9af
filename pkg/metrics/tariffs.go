package metrics

import "github.com/prometheus/client_golang/prometheus"

// TariffMetrics tracks bulk increases and the expiring tariffs watch.
type TariffMetrics struct {
	increaseRuns    *prometheus.CounterVec
	increasedRows   *prometheus.CounterVec
	expiringClients prometheus.Gauge
}

// NewTariffMetrics registers the tariff metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewTariffMetrics(reg prometheus.Registerer) *TariffMetrics {
	if reg == nil {
		return &TariffMetrics{}
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariffdesk_bulk_increase_runs_total",
		Help: "Bulk tariff increases by criterion and outcome.",
	}, []string{"criterion", "outcome"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tariffdesk_bulk_increase_rows_total",
		Help: "Tariff rows rewritten by bulk increases.",
	}, []string{"criterion"})
	expiring := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tariffdesk_expiring_clients",
		Help: "Clients with at least one tariff inside the expiry lookahead.",
	})
	reg.MustRegister(runs, rows, expiring)
	return &TariffMetrics{
		increaseRuns:    runs,
		increasedRows:   rows,
		expiringClients: expiring,
	}
}

// ObserveIncrease records one bulk increase attempt.
func (m *TariffMetrics) ObserveIncrease(criterion string, rows int64, err error) {
	if m == nil || m.increaseRuns == nil {
		return
	}
	label := normalizeLabel(criterion)
	if err != nil {
		m.increaseRuns.WithLabelValues(label, "failure").Inc()
		return
	}
	m.increaseRuns.WithLabelValues(label, "success").Inc()
	m.increasedRows.WithLabelValues(label).Add(float64(rows))
}

func (m *TariffMetrics) SetExpiringClients(n int) {
	if m == nil || m.expiringClients == nil {
		return
	}
	m.expiringClients.Set(float64(n))
}
