package endpoint

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/skillsenselab/searchkit/errors"
	"github.com/skillsenselab/searchkit/status"
)

// Status returns a handler that reports the poller's current status.
// Green and yellow answer 200 so orchestrators keep routing while the
// poller is still waiting; red (or no transition yet) answers 503.
func Status(serviceName string, recorder *status.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		cur := recorder.Current()

		httpStatus := http.StatusOK
		if cur.Status != status.Green && cur.Status != status.Yellow {
			httpStatus = http.StatusServiceUnavailable
		}

		body := gin.H{
			"service": serviceName,
			"status":  cur.Status,
			"message": cur.Message,
		}
		if !cur.At.IsZero() {
			body["since"] = cur.At.UTC().Format(time.RFC3339)
		}

		c.JSON(httpStatus, body)
	}
}

// StatusHistory returns a handler that reports recent status transitions,
// oldest first. An optional ?limit=n query keeps only the n most recent.
func StatusHistory(recorder *status.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		transitions := recorder.History()

		if raw := c.Query("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 {
				RespondWithError(c, apperrors.InvalidInput("limit", "must be a positive integer"))
				return
			}
			if limit < len(transitions) {
				transitions = transitions[len(transitions)-limit:]
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"transitions": transitions,
		})
	}
}
