// Package api serves the local status/control surface: health and metrics
// probes, layer inspection, manual reload, and simulated input injection
// for scripting and tests.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/macropadd/macropadd/internal/config"
	"github.com/macropadd/macropadd/internal/control"
	"github.com/macropadd/macropadd/internal/engine"
	"github.com/macropadd/macropadd/internal/metrics"
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng    *engine.Engine
	loader *config.Loader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, loader *config.Loader) http.Handler {
	h := &Handler{eng: eng, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /v1/events", h.injectEvent)
	h.mux.HandleFunc("GET /v1/layers", h.listLayers)
	h.mux.HandleFunc("GET /v1/layers/active", h.activeLayer)
	h.mux.HandleFunc("POST /v1/reload", h.reload)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

type eventRequest struct {
	Control string `json:"control"`
	Kind    string `json:"kind,omitempty"`
}

// POST /v1/events — inject a simulated input event.
func (h *Handler) injectEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	c, err := control.Parse(req.Control)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind := control.KindKeyDown
	if req.Kind != "" {
		kind = control.EventKind(req.Kind)
		if !kind.Valid() {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown event kind %q", req.Kind))
			return
		}
	}
	accepted := h.eng.OnInputEvent(c, kind)
	if !accepted {
		respondError(w, http.StatusTooManyRequests, "event queue full")
		return
	}
	respond(w, http.StatusAccepted, map[string]interface{}{
		"event_id": uuid.New().String(),
		"control":  c,
		"kind":     kind,
	})
}

type layerInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Application string   `json:"application,omitempty"`
	Controls    []string `json:"controls"`
	Active      bool     `json:"active"`
}

// GET /v1/layers — list registered layers in registration order.
func (h *Handler) listLayers(w http.ResponseWriter, r *http.Request) {
	resolver := h.eng.Resolver()
	reg := resolver.Registry()
	active := resolver.Active()

	out := make([]layerInfo, 0, reg.Len())
	for _, id := range reg.Order() {
		l, _ := reg.Get(id)
		controls := make([]string, 0, len(l.Controls()))
		for _, c := range l.Controls() {
			controls = append(controls, string(c))
		}
		out = append(out, layerInfo{
			ID:          id,
			Name:        l.Name(),
			Application: l.Application(),
			Controls:    controls,
			Active:      l == active,
		})
	}
	respond(w, http.StatusOK, map[string]interface{}{"layers": out})
}

// GET /v1/layers/active — the currently resolved layer.
func (h *Handler) activeLayer(w http.ResponseWriter, r *http.Request) {
	active := h.eng.Resolver().Active()
	respond(w, http.StatusOK, map[string]interface{}{
		"id":          active.ID(),
		"name":        active.Name(),
		"application": active.Application(),
	})
}

// POST /v1/reload — re-read the layers file. The loader's change callbacks
// rebuild and swap the registry; a document that fails validation leaves
// the running configuration untouched.
func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	doc, err := h.loader.Reload()
	if err != nil {
		metrics.ConfigReloads.WithLabelValues("error").Inc()
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"reloaded": true,
		"layers":   len(doc.Order),
	})
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 503 if the dispatch queue is >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	if util > 0.8 {
		respond(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}

type apiError struct {
	Error string `json:"error"`
}

func respond(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, apiError{Error: msg})
}
