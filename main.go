// Command auditform serves the inspection form of Secured Logistics Solution
// on the local machine and exports finished reports as PDF.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"auditform/automation"
	"auditform/config"
	"auditform/database"
	"auditform/export"
	"auditform/loader"
	"auditform/metrics"
	"auditform/record"
	"auditform/render"
	"auditform/vision"
	"auditform/webhook"
)

const (
	Version   = "0.3.0"
	BuildTime = "dev"
	appName   = "auditform"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	var g globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Device inspection form with label scanning and PDF export",
		Long: `auditform runs the inspection form in a local web server.

Label photos are read by a vision model, records are saved to a webhook,
and reports are printed to PDF through a headless Chromium.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), g)
		},
	}
	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "auditform.yaml", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the web server (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), g)
			},
		},
		exportCmd(&g),
		catalogCmd(&g),
		configCmd(&g),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)
	return cmd
}

func exportCmd(g *globalFlags) *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print a saved record snapshot to PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), *g, in, out)
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Snapshot JSON file (as returned by GET /api/record)")
	cmd.Flags().StringVar(&out, "out", "", "Output PDF path (default: the report file name)")
	cmd.MarkFlagRequired("in")
	return cmd
}

func catalogCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the device catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import devices from a CSV file (spec, model, gb, color, coo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cfg, err := setup(*g)
			if err != nil {
				return err
			}
			db, err := loader.OpenDatabase(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := loader.LoadCatalogFile(db, args[0])
			if err != nil {
				return err
			}
			logger.Info("Catalog import complete", "file", args[0], "devices", n)
			return nil
		},
	})
	return cmd
}

func configCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values to --config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runConfigInit(g.configPath, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", g.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

func runConfigInit(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	return config.SaveConfig(path, config.DefaultConfig())
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func setup(g globalFlags) (*slog.Logger, config.Config, error) {
	logger := newLogger(g.logLevel)
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return logger, cfg, nil
}

func branding(cfg config.Config) render.Branding {
	return render.Branding{Title: cfg.Form.CompanyTitle, AddressLines: cfg.Form.AddressLines}
}

func newExporter(cfg config.Config, logger *slog.Logger) (*export.Exporter, *render.Renderer, error) {
	rd, err := render.New()
	if err != nil {
		return nil, nil, err
	}
	printer := automation.NewPDFPrinter(cfg.Export.BrowserPath, cfg.Export.Timeout, automation.WithLogger(logger))
	return export.NewExporter(rd, printer, branding(cfg)), rd, nil
}

func runServe(ctx context.Context, g globalFlags) error {
	logger, cfg, err := setup(g)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting to database...", "path", cfg.Database.Path)
	db, err := loader.OpenDatabase(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Database initialization complete.")

	if cfg.Vision.APIKey == "" {
		logger.Warn("vision API key is not set; label scanning will fail until AUDITFORM_VISION_API_KEY is provided")
	}
	if cfg.Webhook.URL == "" {
		logger.Warn("webhook URL is not set; saving will fail until AUDITFORM_WEBHOOK_URL is provided")
	}

	cat := database.Catalog{DB: db}
	session := record.NewSession(cfg.Form.Auditor,
		record.WithCatalog(cat),
		record.WithCatalogCompletion(cfg.Form.CatalogCompletion))
	if cfg.Form.CatalogCompletion {
		logger.Info("Catalog completion enabled for scanned items")
	}
	metrics.ObserveRecord(0, 0)

	exporter, rd, err := newExporter(cfg, logger)
	if err != nil {
		return err
	}

	app := &App{
		Config:   cfg,
		DB:       db,
		Session:  session,
		Renderer: rd,
		Branding: branding(cfg),
		Extractor: vision.NewClient(vision.Config{
			BaseURL:     cfg.Vision.BaseURL,
			Model:       cfg.Vision.Model,
			APIKey:      cfg.Vision.APIKey,
			Temperature: cfg.Vision.Temperature,
			Timeout:     cfg.Vision.Timeout,
		}, vision.WithLogger(logger)),
		Sender:   webhook.NewClient(cfg.Webhook.URL, cfg.Webhook.Timeout, webhook.WithLogger(logger)),
		Exporter: exporter,
		Catalog:  cat,
		Static:   render.StaticFS(),
		Logger:   logger,
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newHandler(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "url", "http://"+cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if cfg.Server.OpenBrowser {
		openBrowser("http://" + cfg.Server.Addr)
	}

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server start error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runExport(ctx context.Context, g globalFlags, in, out string) error {
	logger, cfg, err := setup(g)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	snap, err := export.ReadSnapshot(f)
	if err != nil {
		return err
	}

	exporter, _, err := newExporter(cfg, logger)
	if err != nil {
		return err
	}
	pdf, name, err := exporter.PDF(ctx, snap)
	if err != nil {
		return err
	}
	if out == "" {
		out = name
	}
	if err := os.WriteFile(out, pdf, 0644); err != nil {
		return fmt.Errorf("write PDF: %w", err)
	}
	logger.Info("PDF written", "path", out, "bytes", len(pdf))
	return nil
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = exec.Command("xdg-open", url).Start()
	}
	if err != nil {
		slog.Warn("failed to open browser", "error", err)
	}
}
