package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"auditform/model"
)

// InsertSubmission journals one save attempt.
func InsertSubmission(db *sqlx.DB, sub model.Submission) error {
	const q = `
		INSERT INTO submissions (
			id, created_at, company_name, customer_code, item_count,
			total_qty, status, http_status, error_message, payload
		) VALUES (
			:id, :created_at, :company_name, :customer_code, :item_count,
			:total_qty, :status, :http_status, :error_message, :payload
		)`
	if _, err := db.NamedExec(q, sub); err != nil {
		return fmt.Errorf("InsertSubmission (ID: %s) failed: %w", sub.ID, err)
	}
	return nil
}

// ListSubmissions returns the newest submissions first, without payloads.
func ListSubmissions(db *sqlx.DB, limit int) ([]model.Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	subs := []model.Submission{}
	const q = `
		SELECT id, created_at, company_name, customer_code, item_count,
		       total_qty, status, http_status, error_message, '' AS payload
		FROM submissions
		ORDER BY created_at DESC, id DESC
		LIMIT ?`
	if err := db.Select(&subs, q, limit); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

// GetSubmission returns one submission with its payload, or nil if unknown.
func GetSubmission(db *sqlx.DB, id string) (*model.Submission, error) {
	var sub model.Submission
	err := db.Get(&sub, `SELECT * FROM submissions WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("GetSubmission (ID: %s) failed: %w", id, err)
	}
	return &sub, nil
}
