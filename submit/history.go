package submit

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"

	"auditform/database"
	"auditform/model"
)

const defaultHistoryLimit = 50

// ListSubmissionsHandler returns the newest journal entries without payloads.
func ListSubmissionsHandler(db *sqlx.DB, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultHistoryLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = min(n, 500)
		}

		subs, err := database.ListSubmissions(db, limit)
		if err != nil {
			logger.Error("failed to list submissions", "error", err)
			writeJSONError(w, "Failed to list submissions", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string][]model.Submission{"submissions": subs})
	}
}

type submissionDetail struct {
	model.Submission
	Payload json.RawMessage `json:"payload"`
}

// GetSubmissionHandler returns one journal entry with the payload that was sent.
func GetSubmissionHandler(db *sqlx.DB, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		sub, err := database.GetSubmission(db, id)
		if err != nil {
			logger.Error("failed to load submission", "id", id, "error", err)
			writeJSONError(w, "Failed to load submission", http.StatusInternalServerError)
			return
		}
		if sub == nil {
			writeJSONError(w, "Submission not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(submissionDetail{Submission: *sub, Payload: json.RawMessage(sub.Payload)})
	}
}
