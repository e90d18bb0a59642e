package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes carried next to the http status
const (
	CodeOK               = 0
	CodeBadRequest       = 40001
	CodeMalformedInput   = 40002
	CodeNotFound         = 40401
	CodeUnknownSelection = 42201
	CodeInternal         = 50001
)

type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Details string `json:"details,omitempty"`
	Path    string `json:"path,omitempty"` // Location of the offending input field
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: CodeOK, Message: "success", Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: CodeOK, Message: "success", Data: data})
}

func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{Code: code, Message: message})
}

func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// MalformedInput reports an input that failed validation at path
func MalformedInput(c *gin.Context, path, message, details string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    CodeMalformedInput,
		Message: message,
		Details: details,
		Path:    path,
	})
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, CodeNotFound, message)
}

func UnprocessableEntity(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnprocessableEntity, code, message)
}

func InternalError(c *gin.Context, details string) {
	c.JSON(http.StatusInternalServerError, Response{
		Code:    CodeInternal,
		Message: "internal server error",
		Details: details,
	})
}
