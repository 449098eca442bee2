package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/acadhub/gradebook-api/internal/models"
	appErrors "github.com/acadhub/gradebook-api/pkg/errors"
)

type fakeLeaderboardSrv struct {
	standings   []models.StudentSubjectGrade
	top         []models.StudentOverallStanding
	hit         bool
	err         error
	lastSubject string
	lastLimit   int
}

func (f *fakeLeaderboardSrv) SubjectLeaderboard(_ context.Context, subjectID string) ([]models.StudentSubjectGrade, bool, error) {
	f.lastSubject = subjectID
	return f.standings, f.hit, f.err
}

func (f *fakeLeaderboardSrv) TopPerformers(_ context.Context, limit int) ([]models.StudentOverallStanding, bool, error) {
	f.lastLimit = limit
	return f.top, f.hit, f.err
}

func TestLeaderboardHandlerSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rank := 1
	srv := &fakeLeaderboardSrv{
		standings: []models.StudentSubjectGrade{
			{StudentID: "stu-1", SubjectID: "sub-1", Percentage: 91, GPA: 1.25, Rank: &rank},
		},
		hit: true,
	}
	handler := NewLeaderboardHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/leaderboard/subjects/sub-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "sub-1"}}

	handler.SubjectLeaderboard(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sub-1", srv.lastSubject)
	var envelope listEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	if assert.Len(t, envelope.Data, 1) {
		assert.Equal(t, "stu-1", envelope.Data[0]["student_id"])
		assert.Equal(t, float64(1), envelope.Data[0]["rank"])
	}
}

func TestLeaderboardHandlerTopPerformersLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeLeaderboardSrv{
		top: []models.StudentOverallStanding{
			{StudentID: "stu-2", StudentName: "Ben Reyes", GPA: 1.0, SubjectCount: 2, Rank: 1},
		},
	}
	handler := NewLeaderboardHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/leaderboard/top?limit=5", nil)

	handler.TopPerformers(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, srv.lastLimit)
	var envelope listEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	if assert.Len(t, envelope.Data, 1) {
		assert.Equal(t, "Ben Reyes", envelope.Data[0]["student_name"])
	}
}

func TestLeaderboardHandlerDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLeaderboardHandler(&fakeLeaderboardSrv{err: appErrors.ErrNotFound})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/leaderboard/subjects/sub-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "sub-1"}}

	handler.SubjectLeaderboard(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type listEnvelope struct {
	Data []map[string]interface{} `json:"data"`
	Meta map[string]interface{}   `json:"meta"`
}
