// Package health provides the /health endpoint shared by the three services.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"medlicense/pkg/platform/httputil"
)

// CheckFunc probes the health of a dependency. It returns nil when the
// dependency is reachable.
type CheckFunc func(ctx context.Context) error

const checkTimeout = 2 * time.Second

// Handler answers liveness probes. Registered checks (the database, for the
// licensing service) are reported as extra fields, "connected" or
// "disconnected". The endpoint always answers 200; a broken dependency shows
// in the payload, not the status code.
type Handler struct {
	service string

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// New creates a health handler for the named service.
func New(service string) *Handler {
	return &Handler{
		service: service,
		checks:  make(map[string]CheckFunc),
	}
}

// RegisterCheck adds a named dependency check.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Register mounts the health route on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
}

// HandleStatus handles GET /health. Checks run concurrently so one slow
// dependency does not delay the probe past its timeout.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	checks := make(map[string]CheckFunc, len(h.checks))
	for name, check := range h.checks {
		checks[name] = check
	}
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	var (
		resultsMu sync.Mutex
		results   = make(map[string]string, len(checks))
	)

	g, ctx := errgroup.WithContext(ctx)
	for name, check := range checks {
		g.Go(func() error {
			state := "connected"
			if err := check(ctx); err != nil {
				state = "disconnected"
			}
			resultsMu.Lock()
			results[name] = state
			resultsMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	response := map[string]any{
		"status":    "OK",
		"service":   h.service,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for name, state := range results {
		response[name] = state
	}

	httputil.WriteJSON(w, http.StatusOK, response)
}
