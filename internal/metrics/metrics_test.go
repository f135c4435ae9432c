package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/oggyb/matcha/internal/metrics"
)

func TestObserveDiscovery(t *testing.T) {
	okBefore := testutil.ToFloat64(metrics.DiscoveryRequests.WithLabelValues("search", "ok"))
	errBefore := testutil.ToFloat64(metrics.DiscoveryRequests.WithLabelValues("search", "error"))

	metrics.ObserveDiscovery("search", time.Now(), 3, nil)
	metrics.ObserveDiscovery("search", time.Now(), 0, errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.DiscoveryRequests.WithLabelValues("search", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(metrics.DiscoveryRequests.WithLabelValues("search", "error")))
}

func TestObserveToggle(t *testing.T) {
	before := testutil.ToFloat64(metrics.Toggles.WithLabelValues("like", "off"))
	metrics.ObserveToggle("like", false)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Toggles.WithLabelValues("like", "off")))
}
