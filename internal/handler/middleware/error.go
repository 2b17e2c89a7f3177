package middleware

import (
	"log/slog"
	"net/http"

	"clinic-scheduler/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler writes the response for handlers that recorded an error
// through c.Error without writing a body themselves.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last()
		if resp, ok := last.Meta.(httperr.Response); ok && last.IsType(gin.ErrorTypePublic) {
			c.JSON(resp.Status, resp)
			return
		}

		status, msg, detail := httperr.Classify(last.Err)
		if status == http.StatusInternalServerError {
			slog.Error("unhandled request error", "error", last.Err, "request_id", GetRequestID(c))
		}
		resp := httperr.Response{Status: status, Detail: detail}
		resp.Error.Message = msg
		c.JSON(status, resp)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic",
					"error", err,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c),
				)

				resp := httperr.Response{Status: http.StatusInternalServerError}
				resp.Error.Message = "Internal server error"
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}
