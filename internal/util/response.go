package util

import (
	"net/http"

	"softskill_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the JSON envelope of the machine-facing endpoints.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func ServiceUnavailable(c *gin.Context, data interface{}) {
	c.JSON(http.StatusServiceUnavailable, Response{
		Code:    http.StatusServiceUnavailable,
		Message: "unavailable",
		Data:    data,
	})
}

// LogError logs err with the request id and route so the generic message shown to
// the user can be traced back.
func LogError(c *gin.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.Error(err),
		zap.String("request_id", c.GetString(RequestIDKey)),
		zap.String("path", c.Request.URL.Path),
	)
	logger.Log.Error(msg, fields...)
}
