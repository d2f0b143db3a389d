package handler

import (
	"net/http"
	"strconv"

	"github.com/covelotage/service-matching/internal/application"
	"github.com/covelotage/service-matching/internal/platform/auth"
	"github.com/covelotage/service-matching/internal/platform/middleware"
	"github.com/covelotage/service-matching/internal/platform/response"
	"github.com/gin-gonic/gin"
)

// RouteHandler handles HTTP requests for route operations.
type RouteHandler struct {
	service *application.RouteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(service *application.RouteService) *RouteHandler {
	return &RouteHandler{service: service}
}

// RegisterRoutes registers all route endpoints on the given router group.
func (h *RouteHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	routes := r.Group("/api/v1/routes")
	routes.Use(authMW)
	{
		routes.POST("", h.CreateRoute)
		routes.GET("", h.ListRoutes)
		routes.POST("/path", h.ComputePath)
		routes.GET("/:name", h.GetRoute)
		routes.PUT("/:name", h.UpdateRoute)
		routes.DELETE("/:name", h.DeleteRoute)
	}
}

// CreateRoute handles POST /api/v1/routes.
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateRoute(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListRoutes handles GET /api/v1/routes.
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.ListRoutes(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetRoute handles GET /api/v1/routes/:name.
func (h *RouteHandler) GetRoute(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetRoute(c.Request.Context(), userID, c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateRoute handles PUT /api/v1/routes/:name.
func (h *RouteHandler) UpdateRoute(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.UpdateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateRoute(c.Request.Context(), userID, c.Param("name"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteRoute handles DELETE /api/v1/routes/:name.
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.DeleteRoute(c.Request.Context(), userID, c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ComputePath handles POST /api/v1/routes/path.
func (h *RouteHandler) ComputePath(c *gin.Context) {
	var req application.ComputePathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ComputePath(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parsePagination reads page/limit query parameters with sane bounds.
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
