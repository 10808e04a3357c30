package form

import "net/http"

// Register mounts the form page and the record API on mux.
func Register(mux *http.ServeMux, h *Handlers) {
	mux.HandleFunc("GET /{$}", h.Page())
	mux.HandleFunc("GET /api/record", h.Record())
	mux.HandleFunc("POST /api/record/reset", h.Reset())
	mux.HandleFunc("GET /api/status", h.Status())
	mux.HandleFunc("PATCH /api/header", h.UpdateHeader())
	mux.HandleFunc("POST /api/items", h.AddItem())
	mux.HandleFunc("PATCH /api/items/{id}", h.UpdateItem())
	mux.HandleFunc("DELETE /api/items/{id}", h.RemoveItem())
	mux.HandleFunc("PATCH /api/checklist", h.UpdateChecklist())
}
