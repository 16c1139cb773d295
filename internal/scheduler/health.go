package scheduler

import (
	"sync"
	"time"
)

// HealthStatus represents the health of a component. It is serialized as-is
// on the health endpoint.
type HealthStatus struct {
	Healthy     bool      `json:"healthy"`
	LastCheck   time.Time `json:"last_check"`
	LastSuccess time.Time `json:"last_success"`
	Error       string    `json:"error,omitempty"`
	Message     string    `json:"message,omitempty"`
}

// Health tracks the health of the scheduled components.
type Health struct {
	mu         sync.RWMutex
	components map[string]*HealthStatus
}

// NewHealth creates a new health tracker.
func NewHealth() *Health {
	return &Health{
		components: make(map[string]*HealthStatus),
	}
}

// SetHealthy marks a component as healthy.
func (h *Health) SetHealthy(component, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	status := h.status(component)
	status.Healthy = true
	status.LastCheck = now
	status.LastSuccess = now
	status.Error = ""
	status.Message = message
}

// SetUnhealthy marks a component as unhealthy.
func (h *Health) SetUnhealthy(component string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	status := h.status(component)
	status.Healthy = false
	status.LastCheck = time.Now()
	status.Error = err.Error()
	status.Message = ""
}

// status returns the mutable entry for component; callers hold h.mu.
func (h *Health) status(component string) *HealthStatus {
	if _, exists := h.components[component]; !exists {
		h.components[component] = &HealthStatus{}
	}
	return h.components[component]
}

// Statuses returns a copy of all component statuses.
func (h *Health) Statuses() map[string]HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make(map[string]HealthStatus, len(h.components))
	for name, status := range h.components {
		result[name] = *status
	}
	return result
}

// IsOverallHealthy returns true if all tracked components are healthy.
func (h *Health) IsOverallHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, status := range h.components {
		if !status.Healthy {
			return false
		}
	}
	return true
}
