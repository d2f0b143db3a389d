package handler

import (
	"net/http"

	"github.com/covelotage/service-matching/internal/application"
	"github.com/covelotage/service-matching/internal/platform/auth"
	"github.com/covelotage/service-matching/internal/platform/middleware"
	"github.com/covelotage/service-matching/internal/platform/response"
	"github.com/gin-gonic/gin"
)

// MatchHandler handles HTTP requests for route matching.
type MatchHandler struct {
	service *application.MatchService
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(service *application.MatchService) *MatchHandler {
	return &MatchHandler{service: service}
}

// RegisterRoutes registers the match endpoint on the given router group.
func (h *MatchHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	matches := r.Group("/api/v1/matches")
	matches.Use(middleware.AuthMiddleware(jwtManager))
	{
		matches.POST("", h.FindMatches)
	}
}

// FindMatches handles POST /api/v1/matches.
func (h *MatchHandler) FindMatches(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.FindMatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.FindMatches(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
