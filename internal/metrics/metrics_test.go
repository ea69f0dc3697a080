package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RowsWritten("protein", 3)
	m.RowsWritten("protein", 2)
	m.RowsWritten("protein", 0)
	m.ValidationFailed("organism")
	m.WellsPurged(4)
	m.WellsRestored(1)

	require.Equal(t, 5.0, testutil.ToFloat64(m.rowsWritten.WithLabelValues("protein")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.validationFailures.WithLabelValues("organism")))
	require.Equal(t, 4.0, testutil.ToFloat64(m.wellsPurged))
	require.Equal(t, 1.0, testutil.ToFloat64(m.wellsRestored))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.RowsWritten("protein", 1)
		m.ValidationFailed("well")
		m.WellsPurged(1)
		m.WellsRestored(1)
	})
}
