package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"macshift/internal/domain/interfaces"
)

// HealthService provides health check functionality for watch mode
type HealthService struct {
	mu             sync.RWMutex
	clock          interfaces.Clock
	logger         *logrus.Logger
	startTime      time.Time
	storeHealthy   bool
	storeError     error
	appliedChanges int64
	failedChanges  int64
	platform       string
}

// HealthStatus represents health check status
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the health check response struct
type HealthResponse struct {
	Status     HealthStatus           `json:"status"`
	Timestamp  string                 `json:"timestamp"`
	LastCheck  string                 `json:"last_check"`
	Components map[string]interface{} `json:"components"`
	Statistics map[string]interface{} `json:"statistics"`
}

// NewHealthService creates a new HealthService
func NewHealthService(clock interfaces.Clock, logger *logrus.Logger) *HealthService {
	return &HealthService{
		clock:        clock,
		logger:       logger,
		startTime:    clock.Now(),
		storeHealthy: false,
	}
}

// UpdateStoreHealth updates the rule store health status
func (h *HealthService) UpdateStoreHealth(healthy bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.storeHealthy = healthy
	h.storeError = err
}

// IncrementAppliedChanges increments the applied change count
func (h *HealthService) IncrementAppliedChanges() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.appliedChanges++
}

// IncrementFailedChanges increments the failed change count
func (h *HealthService) IncrementFailedChanges() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.failedChanges++
}

// SetPlatform sets the platform name in use
func (h *HealthService) SetPlatform(platform string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.platform = platform
}

// ServeHTTP handles the HTTP health check endpoint
func (h *HealthService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := h.buildHealthResponse()

	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("failed to encode health check response")
	}
}

// buildHealthResponse constructs the health check response
func (h *HealthService) buildHealthResponse() HealthResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()

	now := h.clock.Now()

	status := h.determineOverallStatus()

	components := map[string]interface{}{
		"rule_store": map[string]interface{}{
			"healthy": h.storeHealthy,
			"error":   h.formatError(h.storeError),
		},
		"platform": map[string]interface{}{
			"name": h.platform,
		},
	}

	statistics := map[string]interface{}{
		"applied_changes": h.appliedChanges,
		"failed_changes":  h.failedChanges,
		"uptime":          h.formatUptime(now.Sub(h.startTime)),
	}

	return HealthResponse{
		Status:     status,
		Timestamp:  now.Format(time.RFC3339),
		LastCheck:  now.Format(time.RFC3339),
		Components: components,
		Statistics: statistics,
	}
}

// determineOverallStatus determines the overall health status
func (h *HealthService) determineOverallStatus() HealthStatus {
	// If the rule store cannot be read, overall status is unhealthy
	if !h.storeHealthy {
		return StatusUnhealthy
	}

	// If failed changes are 50% or more, status is degraded
	if h.appliedChanges > 0 && h.failedChanges > 0 {
		failureRate := float64(h.failedChanges) / float64(h.appliedChanges+h.failedChanges)
		if failureRate >= 0.5 {
			return StatusDegraded
		}
	}

	return StatusHealthy
}

// formatError formats an error to string
func (h *HealthService) formatError(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// formatUptime formats uptime duration to human-readable format
func (h *HealthService) formatUptime(duration time.Duration) string {
	days := int(duration.Hours()) / 24
	hours := int(duration.Hours()) % 24
	minutes := int(duration.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd%dh%dm", days, hours, minutes)
	} else if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
