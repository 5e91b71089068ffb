package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/skillalchemy/skillalchemy-backend/internal/apperr"
	"github.com/skillalchemy/skillalchemy-backend/internal/logger"
	"github.com/skillalchemy/skillalchemy-backend/internal/services"
	"github.com/skillalchemy/skillalchemy-backend/internal/types"
)

type stubAdaptiveService struct {
	courses []types.Course
	err     error
}

func (s *stubAdaptiveService) InitializeUserData(ctx context.Context, userID int64) error {
	return nil
}

func (s *stubAdaptiveService) GetRecommendations(ctx context.Context, userID int64, recType services.RecommendationType) ([]types.Course, error) {
	return s.courses, s.err
}

func (s *stubAdaptiveService) DefaultsForNewUser(ctx context.Context, userID int64) ([]types.Course, error) {
	return s.courses, s.err
}

func newTestRouter(stub *stubAdaptiveService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewRecommendationHandler(logger.NewNop(), stub)
	router := gin.New()
	router.GET("/recommend/:recType/:userID", handler.Recommend)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecommendRejectsUnknownType(t *testing.T) {
	router := newTestRouter(&stubAdaptiveService{})
	rec := doRequest(t, router, "/recommend/magic/1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRecommendRejectsNonNumericUserID(t *testing.T) {
	router := newTestRouter(&stubAdaptiveService{})
	rec := doRequest(t, router, "/recommend/content/abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRecommendMapsValidationErrorTo400(t *testing.T) {
	router := newTestRouter(&stubAdaptiveService{
		err: apperr.Newf(apperr.KindValidation, "test", "bad request"),
	})
	rec := doRequest(t, router, "/recommend/content/1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRecommendMapsServiceErrorTo500(t *testing.T) {
	router := newTestRouter(&stubAdaptiveService{err: errors.New("store down")})
	rec := doRequest(t, router, "/recommend/content/1")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	// Internal details must not leak to the client.
	if envelope.Error.Message == "store down" {
		t.Fatalf("internal error leaked to response: %+v", envelope)
	}
}

func TestRecommendEmptyResultIs404(t *testing.T) {
	router := newTestRouter(&stubAdaptiveService{courses: []types.Course{}})
	rec := doRequest(t, router, "/recommend/hybrid/1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRecommendReturnsCourses(t *testing.T) {
	router := newTestRouter(&stubAdaptiveService{courses: []types.Course{
		{CourseID: 2, CourseName: "Advanced Go", Category: "Visual", Popularity: 40},
		{CourseID: 1, CourseName: "Intro to Go", Category: "Visual", Popularity: 10},
	}})
	rec := doRequest(t, router, "/recommend/content/7")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body RecommendationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.UserID != 7 {
		t.Fatalf("user_id = %d, want 7", body.UserID)
	}
	if len(body.Recommendations) != 2 || body.Recommendations[0].CourseID != 2 {
		t.Fatalf("unexpected recommendations: %+v", body.Recommendations)
	}
}
