package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRPC(t *testing.T) {
	c := rpcCalls.WithLabelValues("call_kw", "sale.order", "create", "ok")
	before := testutil.ToFloat64(c)

	RecordRPC("call_kw", "sale.order", "create", "ok", 20*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/order", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	c := httpRequests.WithLabelValues(http.MethodGet, "/order", "204")
	before := testutil.ToFloat64(c)

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/order?orderId=42", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	RecordRPC("authenticate", "", "", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "odoodesk_rpc_calls_total")
	assert.Contains(t, rec.Body.String(), "odoodesk_rpc_duration_seconds")
}
