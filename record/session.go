// Package record holds the one in-memory inspection record of the running
// application and every operation that mutates it.
package record

import (
	"errors"
	"sync"
	"time"

	"auditform/model"
)

var (
	ErrItemNotFound        = errors.New("item not found")
	ErrUnknownField        = errors.New("unknown field")
	ErrUnknownChecklistKey = errors.New("unknown checklist key")
	ErrBusy                = errors.New("operation already in progress")
)

// ExtractionFailedMessage is shown to the user after a failed scan.
const ExtractionFailedMessage = "Audit integrity failure. Manual entry required."

// Session is the current record plus the two busy flags that gate the
// outbound calls. All methods are safe for concurrent use; HTTP handlers run
// on their own goroutines even though there is a single user.
type Session struct {
	mu sync.Mutex

	header    model.ReportHeader
	items     []model.InspectionItem
	checklist model.Checklist

	extracting bool
	saving     bool
	lastError  string

	auditor string
	now     func() time.Time
	newID   func() string
	catalog CatalogLookup
	// completion lets ApplyExtraction fill blank item fields from the catalog.
	completion bool
}

// CatalogLookup resolves a specification code to a known device.
type CatalogLookup interface {
	LookupSpec(spec string) (*model.CatalogDevice, error)
}

type Option func(*Session)

// WithClock overrides the clock used for header defaults.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithIDGenerator overrides item identifier generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Session) {
		s.newID = gen
	}
}

// WithCatalog attaches the device catalog. On its own it only produces
// suggestions; extracted items are stored as read.
func WithCatalog(c CatalogLookup) Option {
	return func(s *Session) {
		s.catalog = c
	}
}

// WithCatalogCompletion makes ApplyExtraction write catalog values into
// blank item fields. Requires WithCatalog.
func WithCatalogCompletion(enabled bool) Option {
	return func(s *Session) {
		s.completion = enabled
	}
}

func NewSession(auditor string, opts ...Option) *Session {
	s := &Session{
		auditor: auditor,
		now:     time.Now,
		newID:   newItemID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

// Reset replaces the record with a fresh default one.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.header = model.NewHeader(s.now(), s.auditor)
	s.items = []model.InspectionItem{}
	s.checklist = model.NewChecklist()
	s.lastError = ""
}

// Snapshot copies the record. The returned value shares no memory with the session.
func (s *Session) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.InspectionItem, len(s.items))
	copy(items, s.items)
	return model.Snapshot{
		Header:    s.header,
		Items:     items,
		Checklist: s.checklist.Clone(),
		TotalQty:  model.SumQuantity(s.items),
	}
}

// Status reports the busy flags and the last user-facing error.
type Status struct {
	Extracting bool   `json:"extracting"`
	Saving     bool   `json:"saving"`
	LastError  string `json:"lastError,omitempty"`
	ItemCount  int    `json:"itemCount"`
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Extracting: s.extracting,
		Saving:     s.saving,
		LastError:  s.lastError,
		ItemCount:  len(s.items),
	}
}

// BeginExtraction sets the extraction busy flag and clears the last error.
// It returns ErrBusy when a scan is already running.
func (s *Session) BeginExtraction() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.extracting {
		return ErrBusy
	}
	s.extracting = true
	s.lastError = ""
	return nil
}

// FailExtraction records the user-facing failure message. The record is not touched.
func (s *Session) FailExtraction() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ExtractionFailedMessage
}

func (s *Session) EndExtraction() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extracting = false
}

// BeginSave is the in-flight guard for persistence.
func (s *Session) BeginSave() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return ErrBusy
	}
	s.saving = true
	return nil
}

func (s *Session) EndSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
}
