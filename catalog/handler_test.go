package catalog

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditform/loader"
	"auditform/model"
)

const sampleCSV = "spec,model,gb,color,coo\n" +
	"SM-A366B,Galaxy A36 5G,8/128GB,Awesome Black,Vietnam\n" +
	"SM-A366BZK,Galaxy A36 5G,8/256GB,Awesome Black,Vietnam\n"

func newMux(t *testing.T) *http.ServeMux {
	t.Helper()
	db, err := loader.OpenDatabase(filepath.Join(t.TempDir(), "auditform.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/catalog/import", ImportHandler(db, logger))
	mux.HandleFunc("GET /api/catalog/{spec}", LookupHandler(db, logger))
	return mux
}

func upload(t *testing.T, mux http.Handler, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "catalog.csv")
	require.NoError(t, err)
	fw.Write([]byte(content))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/catalog/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestImportAndLookup(t *testing.T) {
	mux := newMux(t)

	rec := upload(t, mux, sampleCSV)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"count":2`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/sm-a366bzkpmea", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var dev model.CatalogDevice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dev))
	assert.Equal(t, "SM-A366BZK", dev.Spec)
	assert.Equal(t, "8/256GB", dev.GB)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/XYZ", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImport_BadFile(t *testing.T) {
	mux := newMux(t)

	rec := upload(t, mux, "name,price\nfoo,1\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/catalog/import", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
