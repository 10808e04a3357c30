// Package export produces the PDF file of a record.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"auditform/metrics"
	"auditform/model"
	"auditform/render"
)

// Printer turns a self-contained HTML page into PDF bytes.
type Printer interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

// SnapshotSource supplies the record to export.
type SnapshotSource interface {
	Snapshot() model.Snapshot
}

type Exporter struct {
	renderer *render.Renderer
	printer  Printer
	branding render.Branding
}

func NewExporter(r *render.Renderer, p Printer, b render.Branding) *Exporter {
	return &Exporter{renderer: r, printer: p, branding: b}
}

// PDF renders snap in PDF mode and prints it. It returns the bytes and the
// download file name.
func (e *Exporter) PDF(ctx context.Context, snap model.Snapshot) ([]byte, string, error) {
	doc := render.BuildDocument(snap, e.branding)

	var html strings.Builder
	if err := e.renderer.RenderDocument(&html, doc, render.ModePDF); err != nil {
		return nil, "", fmt.Errorf("failed to render document: %w", err)
	}
	pdf, err := e.printer.PrintPDF(ctx, html.String())
	if err != nil {
		return nil, "", err
	}
	return pdf, render.Filename(snap.Header), nil
}

// ReadSnapshot decodes a snapshot file as written by GET /api/record.
// Missing checklist keys are filled in unchecked.
func ReadSnapshot(r io.Reader) (model.Snapshot, error) {
	var snap model.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	cl := model.NewChecklist()
	for key, entry := range snap.Checklist {
		if model.IsChecklistKey(key) {
			cl[key] = entry
		}
	}
	snap.Checklist = cl
	if snap.Items == nil {
		snap.Items = []model.InspectionItem{}
	}
	snap.TotalQty = model.SumQuantity(snap.Items)
	return snap, nil
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// PDFHandler serves the current record as a PDF attachment.
func PDFHandler(src SnapshotSource, e *Exporter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timer := metrics.NewTimer(metrics.ExportDuration)
		pdf, name, err := e.PDF(r.Context(), src.Snapshot())
		timer.ObserveDuration()
		if err != nil {
			metrics.Exports.WithLabelValues("failed").Inc()
			logger.Error("PDF export failed", "error", err)
			writeJSONError(w, "PDF export failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		metrics.Exports.WithLabelValues("ok").Inc()

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.Header().Set("Content-Length", fmt.Sprint(len(pdf)))
		if _, err := w.Write(pdf); err != nil {
			logger.Warn("failed to write PDF response", "error", err)
		}
	}
}

// PrintHandler serves the print view of the current record.
func PrintHandler(src SnapshotSource, rd *render.Renderer, b render.Branding, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := render.BuildDocument(src.Snapshot(), b)
		var html strings.Builder
		if err := rd.RenderDocument(&html, doc, render.ModePrint); err != nil {
			logger.Error("failed to render print view", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, html.String())
	}
}
