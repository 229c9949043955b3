package status

import (
	"github.com/skillsenselab/searchkit/logger"
)

// LogSink is a Sink that writes every transition to the structured log.
// Red transitions log at warn level, everything else at info.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a log sink. A nil log uses the global logger.
func NewLogSink(log *logger.Logger) *LogSink {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &LogSink{log: log.WithComponent("status")}
}

// Set logs the transition.
func (l *LogSink) Set(s Status, message string) {
	fields := map[string]interface{}{logger.FieldStatus: string(s)}
	if s == Red {
		l.log.Warn(message, fields)
		return
	}
	l.log.Info(message, fields)
}
