package response

import (
	"errors"
	"net/http"

	"github.com/covelotage/service-matching/internal/domain"
	"github.com/covelotage/service-matching/internal/domain/geo"
	"github.com/covelotage/service-matching/internal/domain/matching"
	"github.com/gin-gonic/gin"
)

// envelope is the standard response body shape.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type paginatedData struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// NoContent writes a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 response wrapping items with pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    paginatedData{Items: items, Total: total, Page: page, Limit: limit},
	})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, envelope{
		Success: false,
		Error:   &errorBody{Code: string(domain.CodeValidation), Message: msg},
	})
}

// Error maps a domain or algorithm error to the appropriate HTTP status. The
// caller never sees a substituted default; the failure is surfaced as-is.
func Error(c *gin.Context, err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		c.JSON(statusFor(domainErr.Code), envelope{
			Success: false,
			Error:   &errorBody{Code: string(domainErr.Code), Message: domainErr.Message},
		})
		return
	}

	var malformed *geo.MalformedCoordinateError
	if errors.As(err, &malformed) {
		BadRequest(c, malformed.Error())
		return
	}
	if errors.Is(err, geo.ErrShortReferencePath) || errors.Is(err, matching.ErrEmptyRoute) {
		BadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusInternalServerError, envelope{
		Success: false,
		Error:   &errorBody{Code: "INTERNAL_ERROR", Message: "internal server error"},
	})
}

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeStorage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
