// Package submit sends the current record to the storage webhook and keeps
// a local journal of every attempt.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"auditform/database"
	"auditform/metrics"
	"auditform/model"
	"auditform/record"
	"auditform/webhook"
)

// ErrPersistence wraps a failed delivery.
var ErrPersistence = errors.New("persistence failed")

// CreatedAtLayout sorts lexically in time order.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

// Sender delivers a snapshot to external storage.
type Sender interface {
	Send(ctx context.Context, snap model.Snapshot) (webhook.Result, error)
}

type submitResponse struct {
	Message    string           `json:"message"`
	Submission model.Submission `json:"submission"`
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// newSubmission builds the journal row for one attempt.
func newSubmission(snap model.Snapshot, now time.Time) (model.Submission, error) {
	payload, err := webhook.Marshal(snap)
	if err != nil {
		return model.Submission{}, err
	}
	return model.Submission{
		ID:           uuid.NewString(),
		CreatedAt:    now.UTC().Format(CreatedAtLayout),
		CompanyName:  snap.Header.CompanyName,
		CustomerCode: snap.Header.CustomerCode,
		ItemCount:    len(snap.Items),
		TotalQty:     snap.TotalQty,
		Payload:      string(payload),
	}, nil
}

// SubmitHandler handles POST /api/submit. The snapshot is taken once, sent
// once and journaled whatever the outcome. The record is never cleared.
func SubmitHandler(s *record.Session, sender Sender, db *sqlx.DB, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.BeginSave(); err != nil {
			metrics.Saves.WithLabelValues("busy").Inc()
			writeJSONError(w, "A save is already in progress", http.StatusConflict)
			return
		}
		defer s.EndSave()

		snap := s.Snapshot()
		sub, err := newSubmission(snap, time.Now())
		if err != nil {
			logger.Error("failed to encode snapshot", "error", err)
			writeJSONError(w, "Failed to encode record", http.StatusInternalServerError)
			return
		}

		timer := metrics.NewTimer(metrics.SaveDuration)
		res, sendErr := sender.Send(r.Context(), snap)
		timer.ObserveDuration()

		sub.HTTPStatus = res.StatusCode
		if sendErr != nil {
			sendErr = fmt.Errorf("%w: %w", ErrPersistence, sendErr)
			sub.Status = model.SubmissionFailed
			sub.ErrorMessage = sendErr.Error()
		} else {
			sub.Status = model.SubmissionSent
		}
		metrics.Saves.WithLabelValues(sub.Status).Inc()

		if err := database.InsertSubmission(db, sub); err != nil {
			logger.Error("failed to journal submission", "id", sub.ID, "error", err)
		}

		if sendErr != nil {
			logger.Error("Record save failed", "id", sub.ID, "error", sendErr)
			writeJSONError(w, "Failed to save record: "+sendErr.Error(), http.StatusBadGateway)
			return
		}

		logger.Info("Record saved", "id", sub.ID, "http_status", res.StatusCode, "items", sub.ItemCount)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(submitResponse{Message: "Record saved", Submission: sub})
	}
}
