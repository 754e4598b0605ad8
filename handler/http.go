package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxRequestBytes = 1 << 20

// Router exposes the relay at /api/chat for the local dev server. The route
// accepts every method so non-POST requests get the relay's JSON 405.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeResult(w, "", result{status: http.StatusOK, body: []byte(`{"status":"ok"}`)})
	})
	r.HandleFunc("/api/chat", h.ServeChat)
	return r
}

// ServeChat adapts a net/http request to the relay.
func (h *Handler) ServeChat(w http.ResponseWriter, r *http.Request) {
	correlationID := r.Header.Get(correlationHeader)
	if correlationID == "" {
		correlationID = newUUID()
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil && r.Method == http.MethodPost {
		writeResult(w, correlationID, h.fail(r.Context(), correlationID, r.Method, fmt.Errorf("handler: read body: %w", err)))
		return
	}
	writeResult(w, correlationID, h.serve(r.Context(), r.Method, body, correlationID))
}

func writeResult(w http.ResponseWriter, correlationID string, res result) {
	w.Header().Set("Content-Type", "application/json")
	if correlationID != "" {
		w.Header().Set(correlationHeader, correlationID)
	}
	w.WriteHeader(res.status)
	_, _ = w.Write(res.body)
}
