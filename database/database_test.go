package database

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditform/model"
)

const testSchema = `
CREATE TABLE submissions (
    id TEXT PRIMARY KEY, created_at TEXT NOT NULL, company_name TEXT NOT NULL DEFAULT '',
    customer_code TEXT NOT NULL DEFAULT '', item_count INTEGER NOT NULL DEFAULT 0,
    total_qty INTEGER NOT NULL DEFAULT 0, status TEXT NOT NULL, http_status INTEGER NOT NULL DEFAULT 0,
    error_message TEXT NOT NULL DEFAULT '', payload TEXT NOT NULL
);
CREATE TABLE catalog_devices (
    spec TEXT PRIMARY KEY, model TEXT NOT NULL, gb TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '', coo TEXT NOT NULL DEFAULT ''
);`

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func TestSubmissions(t *testing.T) {
	db := openTestDB(t)

	first := model.Submission{
		ID: "s1", CreatedAt: "2026-03-14T09:00:00Z", CompanyName: "Acme", CustomerCode: "C-001",
		ItemCount: 1, TotalQty: 2, Status: model.SubmissionSent, HTTPStatus: 200, Payload: `{"totalQty":2}`,
	}
	second := model.Submission{
		ID: "s2", CreatedAt: "2026-03-14T10:00:00Z", Status: model.SubmissionFailed,
		ErrorMessage: "dial tcp: refused", Payload: `{}`,
	}
	require.NoError(t, InsertSubmission(db, first))
	require.NoError(t, InsertSubmission(db, second))
	assert.Error(t, InsertSubmission(db, first), "duplicate id")

	list, err := ListSubmissions(db, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].ID)
	assert.Empty(t, list[0].Payload)

	got, err := GetSubmission(db, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `{"totalQty":2}`, got.Payload)
	assert.Equal(t, 200, got.HTTPStatus)

	missing, err := GetSubmission(db, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetCatalogDevice_LongestPrefix(t *testing.T) {
	db := openTestDB(t)
	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, UpsertCatalogDeviceInTx(tx, model.CatalogDevice{Spec: "SM-A366", Model: "Galaxy A36"}))
	require.NoError(t, UpsertCatalogDeviceInTx(tx, model.CatalogDevice{Spec: "SM-A366BZK", Model: "Galaxy A36 Black", Color: "Awesome Black"}))
	require.NoError(t, tx.Commit())

	tests := []struct {
		spec string
		want string
	}{
		{"SM-A366BZKPMEA", "Galaxy A36 Black"},
		{"sm-a366bzkpmea", "Galaxy A36 Black"},
		{"SM-A366BLU", "Galaxy A36"},
		{"SM-A366", "Galaxy A36"},
		{"SM-A36", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			dev, err := Catalog{DB: db}.LookupSpec(tt.spec)
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, dev)
				return
			}
			require.NotNil(t, dev)
			assert.Equal(t, tt.want, dev.Model)
		})
	}

	n, err := CountCatalogDevices(db)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
