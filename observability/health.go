package observability

import "github.com/skillsenselab/searchkit/component"

// ServiceHealth describes the overall health of the service and its components.
// The status server serializes this as the /health response body.
type ServiceHealth struct {
	Service    string                 `json:"service"`
	Status     component.HealthStatus `json:"status"`
	Version    string                 `json:"version,omitempty"`
	Components []component.Health     `json:"components,omitempty"`
}

// NewServiceHealth creates a ServiceHealth with status healthy.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  component.StatusHealthy,
		Version: version,
	}
}

// AddComponent adds a component health result and degrades overall status if needed.
func (sh *ServiceHealth) AddComponent(ch component.Health) {
	sh.Components = append(sh.Components, ch)

	switch ch.Status {
	case component.StatusUnhealthy:
		sh.Status = component.StatusUnhealthy
	case component.StatusDegraded:
		if sh.Status != component.StatusUnhealthy {
			sh.Status = component.StatusDegraded
		}
	}
}

// Aggregate rolls up component health results into a ServiceHealth.
func Aggregate(service, version string, components []component.Health) *ServiceHealth {
	sh := NewServiceHealth(service, version)
	for _, ch := range components {
		sh.AddComponent(ch)
	}
	return sh
}
