// Package catalog exposes the device catalog: CSV import and lookup by
// specification code.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"auditform/database"
	"auditform/loader"
)

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// ImportHandler takes a CSV upload in the "file" field and upserts its rows.
func ImportHandler(db *sqlx.DB, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, hdr, err := r.FormFile("file")
		if err != nil {
			writeJSONError(w, "Failed to read CSV file: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		n, err := loader.LoadCatalog(db, file)
		if err != nil {
			logger.Warn("catalog import failed", "file", hdr.Filename, "error", err)
			writeJSONError(w, "Failed to import catalog: "+err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": fmt.Sprintf("Imported %d devices", n),
			"count":   n,
		})
	}
}

// LookupHandler resolves a specification code by longest catalog prefix.
func LookupHandler(db *sqlx.DB, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec := strings.TrimSpace(r.PathValue("spec"))
		if spec == "" {
			writeJSONError(w, "spec is required", http.StatusBadRequest)
			return
		}
		dev, err := database.GetCatalogDevice(db, spec)
		if err != nil {
			logger.Error("catalog lookup failed", "spec", spec, "error", err)
			writeJSONError(w, "Failed to query catalog", http.StatusInternalServerError)
			return
		}
		if dev == nil {
			writeJSONError(w, "No catalog device for "+spec, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dev)
	}
}
