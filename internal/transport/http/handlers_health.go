package httptransport

import (
	"context"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"backoffice/pkg/platform/httputil"
)

// HealthChecker is an optional backing service such as a notification sink.
type HealthChecker interface {
	Health(ctx context.Context) error
}

const healthCheckTimeout = 2 * time.Second

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler reports "ok" when every check passes and "degraded" with a
// 503 otherwise. Checks run concurrently.
func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		if len(names) > 0 {
			resp.Checks = make(map[string]string, len(names))
		}

		results := make([]string, len(names))
		var g errgroup.Group
		for i, name := range names {
			g.Go(func() error {
				results[i] = "ok"
				if err := checks[name].Health(ctx); err != nil {
					results[i] = err.Error()
				}
				return nil
			})
		}
		_ = g.Wait()
		for i, name := range names {
			resp.Checks[name] = results[i]
		}

		status := http.StatusOK
		for _, result := range resp.Checks {
			if result != "ok" {
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
			}
		}
		httputil.WriteJSON(w, status, resp)
	}
}
