package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope status codes. 0 marks success, 1 a handled failure.
const (
	StatusOK     = 0
	StatusFailed = 1
)

type APIResponse[T any] struct {
	Message   string      `json:"message"`
	Status    int         `json:"status"`
	Data      T           `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes a status=0 envelope with the given HTTP code.
func Success[T any](ctx *gin.Context, code int, data T, message string) {
	if code == 0 {
		code = http.StatusOK
	}
	ctx.JSON(code, APIResponse[T]{
		Message:   message,
		Status:    StatusOK,
		Data:      data,
		RequestID: ctx.GetString("request_id"),
		Timestamp: time.Now().UTC(),
	})
}

// Error writes a status=1 envelope and aborts the chain. details may be nil.
func Error(ctx *gin.Context, code int, message string, details interface{}) {
	if code == 0 {
		code = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(code, APIResponse[any]{
		Message:   message,
		Status:    StatusFailed,
		RequestID: ctx.GetString("request_id"),
		Timestamp: time.Now().UTC(),
		Error:     details,
	})
}
