package main

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"auditform/catalog"
	"auditform/config"
	"auditform/export"
	"auditform/form"
	"auditform/metrics"
	"auditform/middleware"
	"auditform/record"
	"auditform/render"
	"auditform/scan"
	"auditform/submit"
)

// App bundles what the handlers share.
type App struct {
	Config    config.Config
	DB        *sqlx.DB
	Session   *record.Session
	Renderer  *render.Renderer
	Branding  render.Branding
	Extractor scan.Extractor
	Sender    submit.Sender
	Exporter  *export.Exporter
	Catalog   form.CatalogCounter
	Static    fs.FS
	Logger    *slog.Logger
}

func SetupRoutes(mux *http.ServeMux, app *App) {
	logger := app.Logger

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(app.Static)))

	form.Register(mux, form.NewHandlers(app.Session, app.Renderer, app.Branding, app.Catalog, logger))

	mux.HandleFunc("GET /print", export.PrintHandler(app.Session, app.Renderer, app.Branding, logger))
	mux.HandleFunc("GET /api/export/pdf", export.PDFHandler(app.Session, app.Exporter, logger))

	scanLimit := middleware.RateLimit(app.Config.Server.ScanRate, app.Config.Server.ScanBurst, logger)
	mux.Handle("POST /api/scan", scanLimit(scan.ScanHandler(app.Session, app.Extractor, logger)))

	mux.HandleFunc("POST /api/submit", submit.SubmitHandler(app.Session, app.Sender, app.DB, logger))
	mux.HandleFunc("GET /api/submissions", submit.ListSubmissionsHandler(app.DB, logger))
	mux.HandleFunc("GET /api/submissions/{id}", submit.GetSubmissionHandler(app.DB, logger))

	mux.HandleFunc("POST /api/catalog/import", catalog.ImportHandler(app.DB, logger))
	mux.HandleFunc("GET /api/catalog/{spec}", catalog.LookupHandler(app.DB, logger))

	mux.HandleFunc("GET /api/config", GetConfigHandler())
	mux.Handle("GET /metrics", metrics.Handler())
}

// newHandler wraps the mux with the server-wide middleware.
func newHandler(app *App) http.Handler {
	mux := http.NewServeMux()
	SetupRoutes(mux, app)
	return middleware.Chain(mux,
		middleware.PanicRecovery(app.Logger),
		middleware.AccessLog(app.Logger),
		middleware.LimitRequestSize(app.Config.Server.MaxUploadBytes, app.Logger),
	)
}
