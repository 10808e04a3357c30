// Package automation drives a headless Chromium through go-rod. It is used
// to print the rendered report page to PDF.
package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ErrEmptyPDF is returned when the browser produced no output.
var ErrEmptyPDF = errors.New("browser returned an empty PDF")

// PDFPrinter launches a browser per print job. Jobs are serialized.
type PDFPrinter struct {
	mu          sync.Mutex
	browserPath string
	timeout     time.Duration
	logger      *slog.Logger
}

type Option func(*PDFPrinter)

func WithLogger(l *slog.Logger) Option {
	return func(p *PDFPrinter) {
		p.logger = l
	}
}

// NewPDFPrinter creates a printer. An empty browserPath lets go-rod look up
// a local Chromium or download one on first use.
func NewPDFPrinter(browserPath string, timeout time.Duration, opts ...Option) *PDFPrinter {
	p := &PDFPrinter{
		browserPath: browserPath,
		timeout:     timeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PrintPDF loads html into a blank page and prints it with the page's own
// CSS page size and backgrounds.
func (p *PDFPrinter) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()

	// Leakless(false) keeps antivirus software from flagging the helper binary.
	l := launcher.New().
		Headless(true).
		Leakless(false).
		Context(ctx)
	if p.browserPath != "" {
		l = l.Bin(p.browserPath)
	}
	defer l.Cleanup()

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer l.Kill()

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed waiting for document: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print PDF: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF stream: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyPDF
	}

	p.logger.Debug("PDF printed", "bytes", len(data), "duration", time.Since(start))
	return data, nil
}
