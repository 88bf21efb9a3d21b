package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/zchut-miluim/mentoring-api/internal/service"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) PingContext(ctx context.Context) error {
	return f.err
}

func readyRequest(t *testing.T, h *MetricsHandler) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	h.Ready(c)
	return w
}

func TestReady(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), &fakePinger{})
	assert.Equal(t, http.StatusOK, readyRequest(t, h).Code)
}

func TestReadyDatabaseDown(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), &fakePinger{err: errors.New("connection refused")})
	assert.Equal(t, http.StatusServiceUnavailable, readyRequest(t, h).Code)
}
