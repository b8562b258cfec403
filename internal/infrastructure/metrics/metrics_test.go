package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveFetch(t *testing.T) {
	m := getMetrics()
	okBefore := testutil.ToFloat64(m.fetchTotal.WithLabelValues("test", "summary", ResultOK))
	errBefore := testutil.ToFloat64(m.fetchTotal.WithLabelValues("test", "summary", ResultError))

	ObserveFetch("test", "summary", nil, time.Millisecond)
	ObserveFetch("test", "summary", errors.New("boom"), time.Millisecond)
	ObserveFetch("test", "summary", errors.New("boom"), time.Millisecond)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(m.fetchTotal.WithLabelValues("test", "summary", ResultOK)))
	assert.Equal(t, errBefore+2, testutil.ToFloat64(m.fetchTotal.WithLabelValues("test", "summary", ResultError)))
}

func TestObserveCache(t *testing.T) {
	m := getMetrics()
	before := testutil.ToFloat64(m.cacheTotal.WithLabelValues("regions", "hit"))

	ObserveCache("regions", "hit")

	assert.Equal(t, before+1, testutil.ToFloat64(m.cacheTotal.WithLabelValues("regions", "hit")))
}
