package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillalchemy/skillalchemy-backend/internal/apperr"
	"github.com/skillalchemy/skillalchemy-backend/internal/logger"
	"github.com/skillalchemy/skillalchemy-backend/internal/services"
	"github.com/skillalchemy/skillalchemy-backend/internal/types"
)

type RecommendationHandler struct {
	log      *logger.Logger
	adaptive services.AdaptiveLearningService
}

func NewRecommendationHandler(baseLog *logger.Logger, adaptive services.AdaptiveLearningService) *RecommendationHandler {
	return &RecommendationHandler{
		log:      baseLog.With("handler", "RecommendationHandler"),
		adaptive: adaptive,
	}
}

type RecommendationResponse struct {
	UserID          int64          `json:"user_id"`
	Recommendations []types.Course `json:"recommendations"`
}

// Recommend serves GET /recommend/:recType/:userID. An unknown strategy or
// malformed user id is a 400, an empty result set is a 404, everything else
// that fails is a 500.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	recType, err := services.ParseRecommendationType(c.Param("recType"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_recommendation_type", err)
		return
	}

	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id",
			errors.New("user id must be an integer"))
		return
	}

	recommendations, err := h.adaptive.GetRecommendations(c.Request.Context(), userID, recType)
	if err != nil {
		if apperr.IsKind(err, apperr.KindValidation) {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		h.log.Error("Recommendation request failed", "user_id", userID, "type", recType, "error", err)
		RespondError(c, http.StatusInternalServerError, "recommendation_failed",
			errors.New("failed to generate recommendations"))
		return
	}

	if len(recommendations) == 0 {
		RespondError(c, http.StatusNotFound, "no_recommendations",
			errors.New("no recommendations found"))
		return
	}

	RespondOK(c, RecommendationResponse{
		UserID:          userID,
		Recommendations: recommendations,
	})
}
