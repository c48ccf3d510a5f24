package utils

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Response defines the standard API response envelope.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// ErrorInfo provides details for error responses.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta contains request-scoped metadata.
type Meta struct {
	RequestID  string      `json:"requestId"`
	Timestamp  string      `json:"timestamp"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Success writes a success response with the standard envelope.
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta: Meta{
			RequestID: getRequestID(c),
			Timestamp: time.Now().Format(time.RFC3339),
		},
	})
}

// SuccessWithPagination writes a success response with pagination metadata.
func SuccessWithPagination(c *gin.Context, code int, message string, data interface{}, page, limit, totalItems int) {
	// safety defaults
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	totalPages := (totalItems + limit - 1) / limit
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta: Meta{
			RequestID: getRequestID(c),
			Timestamp: time.Now().Format(time.RFC3339),
			Pagination: &Pagination{
				Page:       page,
				Limit:      limit,
				TotalItems: totalItems,
				TotalPages: totalPages,
			},
		},
	})
}

// Error writes an error response with provided API error code and message.
func Error(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, Response{
		Success: false,
		Code:    code,
		Message: message,
		Error: &ErrorInfo{
			Code:    errCode,
			Message: message,
		},
		Meta: Meta{
			RequestID: getRequestID(c),
			Timestamp: time.Now().Format(time.RFC3339),
		},
	})
}

// RespondError maps an application error to the envelope. Internal errors are
// logged server-side and surfaced with a generic message.
func RespondError(c *gin.Context, err error) {
	status := StatusForError(err)
	code := CodeForError(err)
	message := err.Error()
	if status == 500 {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("internal error")
		message = "An unexpected error occurred"
		if errors.Is(err, ErrGateway) {
			message = "Payment provider request failed"
		}
	}
	Error(c, status, code, message)
}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.New().String()[:8]
}
