package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/crowdscan-backend-go/internal/apperr"
)

// Response represents a standard API response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Kind    string      `json:"kind,omitempty"`
	ID      string      `json:"id,omitempty"` // offending identifier, if known
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created sends a 201 response
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    http.StatusBadRequest,
		Message: message,
		Kind:    string(apperr.KindInvalidInput),
	})
}

// NotFound sends a 404 not found response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError sends a 500 internal server error response
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// FromError sends the response matching a classified error. Unclassified
// errors become a generic 500 so internal details are not leaked.
func FromError(c *gin.Context, err error) {
	e, ok := apperr.As(err)
	if !ok {
		InternalError(c, "Internal server error")
		return
	}

	status := StatusOf(e)
	message := e.Msg
	if message == "" {
		message = e.Error()
	}
	c.JSON(status, Response{
		Code:    status,
		Message: message,
		Kind:    string(e.Kind),
		ID:      e.ID,
	})
}

// StatusOf maps an error kind to an HTTP status
func StatusOf(e *apperr.Error) int {
	switch e.Kind {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidState:
		return http.StatusConflict
	case apperr.KindCollaboratorFailure:
		if e.Op == apperr.NarrativeService {
			return http.StatusBadGateway
		}
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
