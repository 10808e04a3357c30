package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"auditform/model"
	"auditform/record"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticFS serves the stylesheet and script of the form page.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Mode selects the document flavour.
type Mode string

const (
	// ModePrint lists every checklist key, unchecked ones greyed out.
	ModePrint Mode = "print"
	// ModePDF lists only checked keys, or a single placeholder row.
	ModePDF Mode = "pdf"
)

type Renderer struct {
	tmpl *template.Template
	css  template.CSS
}

func New() (*Renderer, error) {
	upper := cases.Upper(language.English)
	funcs := template.FuncMap{
		"upper": upper.String,
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	// The document page is also loaded from memory for PDF printing, so it
	// carries its stylesheet inline.
	css, err := fs.ReadFile(staticFS, "static/style.css")
	if err != nil {
		return nil, fmt.Errorf("failed to read stylesheet: %w", err)
	}
	return &Renderer{tmpl: tmpl, css: template.CSS(css)}, nil
}

type documentPage struct {
	Document
	Mode         Mode
	CSS          template.CSS
	NoIssues     string
	CheckedLines []ChecklistLine
}

// RenderDocument writes the print or PDF page for doc.
func (r *Renderer) RenderDocument(w io.Writer, doc Document, mode Mode) error {
	page := documentPage{
		Document:     doc,
		Mode:         mode,
		CSS:          r.css,
		NoIssues:     NoIssuesLabel,
		CheckedLines: doc.CheckedLines(),
	}
	return r.tmpl.ExecuteTemplate(w, "document.html", page)
}

// FormPage is the data behind the editable form.
type FormPage struct {
	Branding     Branding
	Snapshot     model.Snapshot
	Status       record.Status
	Checklist    []ChecklistLine
	CatalogCount int
}

func NewFormPage(snap model.Snapshot, status record.Status, b Branding) FormPage {
	page := FormPage{Branding: b, Snapshot: snap, Status: status}
	for _, key := range model.ChecklistKeys {
		e := snap.Checklist[key]
		page.Checklist = append(page.Checklist, ChecklistLine{Key: key, Checked: e.Checked, Count: e.Count})
	}
	return page
}

func (r *Renderer) RenderForm(w io.Writer, page FormPage) error {
	return r.tmpl.ExecuteTemplate(w, "form.html", page)
}
