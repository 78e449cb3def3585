package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSweep_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSweep(reg)

	m.Runs.WithLabelValues(RunCompleted).Inc()
	m.Materialized.Add(3)
	m.Duration.Observe(1.5)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues(RunCompleted)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Materialized))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "ledger_sweep_runs_total")
	assert.Contains(t, names, "ledger_sweep_materialized_entries_total")
	assert.Contains(t, names, "ledger_sweep_duration_seconds")
}

func TestNewSweep_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewSweep(reg)
	assert.Panics(t, func() { NewSweep(reg) })
}

func TestNewSweep_NilRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		NewSweep(nil).Failed.Inc()
		NewSweep(nil).Failed.Inc()
	})
}

func TestNewHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTP(reg)

	m.Requests.WithLabelValues("GET", "/api/v1/entries/{id}", "200").Inc()
	assert.Equal(t, 1, testutil.CollectAndCount(m.Requests))
}
