package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridwanfathin/invoice-generator-service/internal/model"
	"github.com/ridwanfathin/invoice-generator-service/internal/notify"
)

// HTTP status codes as constants for consistency
const (
	StatusOK                  = http.StatusOK
	StatusBadRequest          = http.StatusBadRequest
	StatusConflict            = http.StatusConflict
	StatusUnprocessableEntity = http.StatusUnprocessableEntity
	StatusInternalServerError = http.StatusInternalServerError
)

// Common error messages
const (
	ErrInvalidInput   = "Invalid input format"
	ErrInternalServer = "Internal server error"
)

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, message string, details ...model.ErrorDetail) {
	response := model.ErrorResponse{
		Status:  http.StatusText(statusCode),
		Message: message,
		Details: details,
	}
	c.JSON(statusCode, response)
}

// respondWithNotices sends an error response carrying the notices the session showed
func respondWithNotices(c *gin.Context, statusCode int, message string, notices []notify.Notice) {
	c.JSON(statusCode, model.NoticeErrorResponse{
		ErrorResponse: model.ErrorResponse{
			Status:  http.StatusText(statusCode),
			Message: message,
		},
		Notices: notices,
	})
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...model.ErrorDetail) {
	respondWithError(c, StatusBadRequest, message, details...)
}

// respondOK sends a 200 OK response with data
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(StatusOK, data)
}

// newErrorDetail creates a new error detail
func newErrorDetail(field, message string) model.ErrorDetail {
	return model.ErrorDetail{
		Field:   field,
		Message: message,
	}
}
