// Package form serves the editable inspection form and the JSON API behind it.
package form

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"auditform/metrics"
	"auditform/model"
	"auditform/record"
	"auditform/render"
)

// CatalogCounter reports how many devices the catalog holds.
type CatalogCounter interface {
	Count() (int, error)
}

type Handlers struct {
	session  *record.Session
	renderer *render.Renderer
	branding render.Branding
	catalog  CatalogCounter
	logger   *slog.Logger
}

func NewHandlers(s *record.Session, r *render.Renderer, b render.Branding, c CatalogCounter, logger *slog.Logger) *Handlers {
	return &Handlers{session: s, renderer: r, branding: b, catalog: c, logger: logger}
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// errorStatus maps record errors to HTTP codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, record.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, record.ErrUnknownField), errors.Is(err, record.ErrUnknownChecklistKey):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) observe() {
	snap := h.session.Snapshot()
	metrics.ObserveRecord(len(snap.Items), snap.TotalQty)
}

// Page renders the editable form for the current record.
func (h *Handlers) Page() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		count := 0
		if h.catalog != nil {
			n, err := h.catalog.Count()
			if err != nil {
				h.logger.Warn("failed to count catalog devices", "error", err)
			}
			count = n
		}
		page := render.NewFormPage(h.session.Snapshot(), h.session.Status(), h.branding)
		page.CatalogCount = count

		var html strings.Builder
		if err := h.renderer.RenderForm(&html, page); err != nil {
			h.logger.Error("failed to render form", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html.String()))
	}
}

func (h *Handlers) Record() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, h.session.Snapshot())
	}
}

// Reset discards the record, as a page reload did in the browser-only app.
func (h *Handlers) Reset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.session.Reset()
		h.observe()
		h.logger.Info("Record reset")
		writeJSON(w, h.session.Snapshot())
	}
}

func (h *Handlers) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, h.session.Status())
	}
}

type fieldUpdate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// decodeFieldUpdate accepts the value as a JSON string or number.
func decodeFieldUpdate(r *http.Request) (fieldUpdate, error) {
	var raw struct {
		Field string          `json:"field"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return fieldUpdate{}, err
	}
	upd := fieldUpdate{Field: raw.Field}
	if len(raw.Value) == 0 || string(raw.Value) == "null" {
		return upd, nil
	}
	var s string
	if err := json.Unmarshal(raw.Value, &s); err == nil {
		upd.Value = s
		return upd, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw.Value, &n); err != nil {
		return fieldUpdate{}, errors.New("value must be a string or a number")
	}
	upd.Value = n.String()
	return upd, nil
}

func (h *Handlers) UpdateHeader() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upd, err := decodeFieldUpdate(r)
		if err != nil {
			writeJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		header, err := h.session.SetHeaderField(upd.Field, upd.Value)
		if err != nil {
			writeJSONError(w, err.Error(), errorStatus(err))
			return
		}
		writeJSON(w, header)
	}
}

type itemResponse struct {
	Item     model.InspectionItem `json:"item"`
	TotalQty int                  `json:"totalQty"`
}

func (h *Handlers) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item := h.session.AddItem()
		h.observe()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(itemResponse{Item: item, TotalQty: h.session.TotalQuantity()})
	}
}

func (h *Handlers) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		upd, err := decodeFieldUpdate(r)
		if err != nil {
			writeJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		item, err := h.session.UpdateItemField(id, upd.Field, upd.Value)
		if err != nil {
			if errors.Is(err, record.ErrItemNotFound) {
				h.logger.Warn("update for unknown item", "id", id, "field", upd.Field)
			}
			writeJSONError(w, err.Error(), errorStatus(err))
			return
		}
		h.observe()
		writeJSON(w, itemResponse{Item: item, TotalQty: h.session.TotalQuantity()})
	}
}

func (h *Handlers) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.session.RemoveItem(r.PathValue("id"))
		h.observe()
		writeJSON(w, map[string]int{"totalQty": h.session.TotalQuantity()})
	}
}

type checklistUpdate struct {
	Key     string          `json:"key"`
	Checked *bool           `json:"checked"`
	Count   json.RawMessage `json:"count"`
}

type checklistResponse struct {
	Key   string               `json:"key"`
	Entry model.ChecklistEntry `json:"entry"`
}

// UpdateChecklist sets the checked flag, the count, or both for one key.
func (h *Handlers) UpdateChecklist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd checklistUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if upd.Checked == nil && len(upd.Count) == 0 {
			writeJSONError(w, "checked or count is required", http.StatusBadRequest)
			return
		}

		var (
			entry model.ChecklistEntry
			err   error
		)
		if upd.Checked != nil {
			entry, err = h.session.SetChecked(upd.Key, *upd.Checked)
			if err != nil {
				writeJSONError(w, err.Error(), errorStatus(err))
				return
			}
		}
		if len(upd.Count) > 0 {
			entry, err = h.session.SetCount(upd.Key, rawToString(upd.Count))
			if err != nil {
				writeJSONError(w, err.Error(), errorStatus(err))
				return
			}
		}
		writeJSON(w, checklistResponse{Key: upd.Key, Entry: entry})
	}
}

func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
