package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/skillsenselab/searchkit/component"
	"github.com/skillsenselab/searchkit/logger"
)

// ComponentLine is one row of the startup summary: the component's
// description merged with its current health.
type ComponentLine struct {
	Name    string
	Type    string
	Details string
	Port    int
	Status  string
	Healthy bool
}

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
}

// NewSummary creates a new bootstrap summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Collect merges registry descriptions and health into summary lines.
func (s *Summary) Collect(ctx context.Context, registry *component.Registry) []ComponentLine {
	health := make(map[string]component.Health)
	for _, h := range registry.HealthAll(ctx) {
		health[h.Name] = h
	}

	var lines []ComponentLine
	for _, c := range registry.All() {
		line := ComponentLine{Name: c.Name()}
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			line.Type = desc.Type
			line.Details = desc.Details
			line.Port = desc.Port
		}
		if h, ok := health[c.Name()]; ok {
			line.Status = string(h.Status)
			line.Healthy = h.Status == component.StatusHealthy
		}
		lines = append(lines, line)
	}
	return lines
}

// Display logs the startup summary banner and one line per component.
func (s *Summary) Display(ctx context.Context, registry *component.Registry, log *logger.Logger) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	log.Info(fmt.Sprintf("%s %s started in %s",
		s.serviceName, s.version, s.startupDuration.Round(time.Millisecond)))

	for _, line := range s.Collect(ctx, registry) {
		fields := map[string]interface{}{
			"type":   line.Type,
			"status": line.Status,
		}
		if line.Details != "" {
			fields["details"] = line.Details
		}
		if line.Port > 0 {
			fields["port"] = line.Port
		}
		log.Info("  "+formatLineName(line.Name), fields)
	}
}

func formatLineName(name string) string {
	const width = 20
	if len(name) >= width {
		return name
	}
	return name + strings.Repeat(" ", width-len(name))
}
