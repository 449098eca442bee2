package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/acadhub/gradebook-api/internal/middleware"
	"github.com/acadhub/gradebook-api/internal/models"
	appErrors "github.com/acadhub/gradebook-api/pkg/errors"
)

type fakeDashboardSrv struct {
	summary    *models.DashboardSummary
	hit        bool
	err        error
	lastClaims *models.JWTClaims
}

func (f *fakeDashboardSrv) Summary(_ context.Context, claims *models.JWTClaims) (*models.DashboardSummary, bool, error) {
	f.lastClaims = claims
	return f.summary, f.hit, f.err
}

func TestDashboardHandlerSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{
		summary: &models.DashboardSummary{Role: models.RoleProfessor, ClassCount: 3},
		hit:     true,
	}
	handler := NewDashboardHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "prof-1", Role: models.RoleProfessor})

	handler.Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	if assert.NotNil(t, srv.lastClaims) {
		assert.Equal(t, "prof-1", srv.lastClaims.UserID)
	}
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, string(models.RoleProfessor), envelope.Data["role"])
}

func TestDashboardHandlerUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: appErrors.ErrUnauthorized})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}
