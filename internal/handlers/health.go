package handlers

import (
	"context"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// HealthCheckFunc probes one dependency.
type HealthCheckFunc func(ctx context.Context) error

// HealthHandler handles health check requests.
type HealthHandler struct {
	checks map[string]HealthCheckFunc
	stage  string
}

// NewHealthHandler creates a new health handler. A nil check reports its
// dependency as not configured.
func NewHealthHandler(stage string, checks map[string]HealthCheckFunc) *HealthHandler {
	if checks == nil {
		checks = map[string]HealthCheckFunc{}
	}
	return &HealthHandler{checks: checks, stage: stage}
}

// HealthResponse is the response structure for health checks.
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    string            `json:"timestamp"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Stage        string            `json:"stage"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Handle processes health check requests.
func (h *HealthHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := corsHeaders("GET,OPTIONS")

	if request.HTTPMethod == http.MethodOptions {
		return preflight(headers)
	}

	response := HealthResponse{
		Status:       "healthy",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Service:      "tavara-matching",
		Version:      getEnvOrDefault("SERVICE_VERSION", "1.0.0"),
		Stage:        h.stage,
		Dependencies: map[string]string{},
	}
	if response.Stage == "" {
		response.Stage = "unknown"
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		check := h.checks[name]
		switch {
		case check == nil:
			response.Dependencies[name] = "not configured"
		case check(ctx) != nil:
			response.Dependencies[name] = "disconnected"
			response.Status = "degraded"
		default:
			response.Dependencies[name] = "connected"
		}
	}

	statusCode := http.StatusOK
	if response.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	return jsonResponse(headers, statusCode, response)
}

// getEnvOrDefault returns environment variable or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
