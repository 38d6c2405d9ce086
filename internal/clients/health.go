package clients

import (
	"context"
	"errors"
	"net/http"
	"time"
)

type HealthResult struct {
	OK         bool          `json:"ok"`
	StatusCode int           `json:"statusCode,omitempty"`
	Service    string        `json:"service,omitempty"`
	Latency    time.Duration `json:"latency"`
	Error      string        `json:"error,omitempty"`
}

// Health probes the server with a short timeout. It never returns an error;
// failures are reported in the result.
func (a *API) Health(ctx context.Context) HealthResult {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	err := a.c.doJSON(ctx, "health", http.MethodGet, "/health", nil, nil, nil, &body)
	res := HealthResult{Latency: time.Since(start), Service: body.Service}
	if err != nil {
		res.Error = err.Error()
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			res.StatusCode = apiErr.Status
		}
		return res
	}
	res.OK = body.Status == "ok"
	res.StatusCode = http.StatusOK
	return res
}
