package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/searchkit/logger"
)

// RequestLogger returns a Gin middleware that logs every request with
// method, path, status code, and duration. Probe paths are skipped so the
// poller's own surface does not flood the log.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isProbeEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		latency := time.Since(start)
		httpStatus := c.Writer.Status()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path = path + "?" + q
		}

		fields := map[string]interface{}{
			"method":  c.Request.Method,
			"path":    path,
			"status":  httpStatus,
			"latency": latency.String(),
			"client":  c.ClientIP(),
		}
		if id := c.GetString("request_id"); id != "" {
			fields["request_id"] = id
		}

		logByStatus(log, fields, httpStatus)
	}
}

func isProbeEndpoint(path string) bool {
	switch path {
	case "/status", "/health", "/version":
		return true
	}
	return false
}

// logByStatus logs request fields at a level matching the HTTP status.
// A nil log falls back to the global logger.
func logByStatus(log *logger.Logger, fields map[string]interface{}, httpStatus int) {
	logErr := logger.Error
	logWarn := logger.Warn
	logDebug := logger.Debug
	if log != nil {
		logErr = log.Error
		logWarn = log.Warn
		logDebug = log.Debug
	}

	switch {
	case httpStatus >= 500:
		logErr("request completed", fields)
	case httpStatus >= 400:
		logWarn("request completed", fields)
	default:
		logDebug("request completed", fields)
	}
}
