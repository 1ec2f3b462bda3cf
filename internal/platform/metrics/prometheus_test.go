package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsManager_Recorders(t *testing.T) {
	m := NewMetricsManager("marketplace_test")

	m.AdCreated()
	m.AdCreated()
	m.ImagesUploaded(3)
	m.ImagesUploaded(0)
	m.ClaimOutcome("claimed")
	m.FeedDelivered("ads")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AdsCreatedTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.AdImagesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClaimOutcomesTotal.WithLabelValues("claimed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedDeliveriesTotal.WithLabelValues("ads")))
}

func TestMetricsManager_NilIsSafe(t *testing.T) {
	var m *MetricsManager
	assert.NotPanics(t, func() {
		m.AdCreated()
		m.ImagesUploaded(2)
		m.ClaimOutcome("failed")
		m.FeedDelivered("directoryBuyers")
	})
}

func TestMetricsManager_Handler(t *testing.T) {
	m := NewMetricsManager("marketplace_test")
	m.AdCreated()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "marketplace_test_ads_created_total 1"))
}

func TestMetricsManager_HyphenatedServiceName(t *testing.T) {
	var m *MetricsManager
	require.NotPanics(t, func() { m = NewMetricsManager("teststrip-marketplace") })
	m.AdCreated()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "teststrip_marketplace_ads_created_total 1")
}
