package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordOutcomes(t *testing.T) {
	m := New()

	m.Upload(OutcomeSuccess)
	m.Upload(OutcomeSuccess)
	m.Upload(OutcomeRejected)
	m.Query(OutcomeFailure, 2*time.Second)
	m.Query(OutcomeRejected, 0)
	m.Documents(3)
	m.CitationWarnings(2)
	m.CitationWarnings(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.uploads.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.documents))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.warnings))

	// two upload series, two query series, histogram, gauge, warnings
	n, err := testutil.GatherAndCount(m.Registry)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Upload(OutcomeSuccess)
		m.Query(OutcomeSuccess, time.Second)
		m.Documents(1)
		m.CitationWarnings(1)
	})
}
