package handler

import (
	"github.com/covelotage/service-matching/internal/application"
	"github.com/covelotage/service-matching/internal/platform/auth"
	"github.com/covelotage/service-matching/internal/platform/middleware"
	"github.com/covelotage/service-matching/internal/platform/response"
	"github.com/gin-gonic/gin"
)

// AdminRouteHandler exposes cross-user route listings for operators.
type AdminRouteHandler struct {
	service *application.RouteService
}

// NewAdminRouteHandler creates a new AdminRouteHandler.
func NewAdminRouteHandler(service *application.RouteService) *AdminRouteHandler {
	return &AdminRouteHandler{service: service}
}

// RegisterRoutes registers admin endpoints on the given router group.
func (h *AdminRouteHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager))
	admin.Use(middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/routes", h.ListAllRoutes)
	}
}

// ListAllRoutes handles GET /api/v1/admin/routes.
func (h *AdminRouteHandler) ListAllRoutes(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListAllRoutes(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}
