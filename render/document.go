// Package render turns a record snapshot into the editable form page, the
// print page and the HTML that is printed to PDF.
package render

import (
	"regexp"
	"strings"

	"auditform/model"
)

// Branding is the fixed company block at the top of every document.
type Branding struct {
	Title        string
	AddressLines []string
}

type MetaField struct {
	Label string
	Value string
}

type ItemRow struct {
	No      int
	Model   string
	GB      string
	Color   string
	COO     string
	Spec    string
	Remarks string
	PCS     int
}

type ChecklistLine struct {
	Key     string
	Checked bool
	Count   int
}

// Document is everything the print view and the PDF show.
type Document struct {
	Branding  Branding
	Header    model.ReportHeader
	Meta      []MetaField
	Rows      []ItemRow
	Total     int
	Checklist []ChecklistLine
	Auditor   string
}

// NoIssuesLabel fills the checklist table when nothing is checked.
const NoIssuesLabel = "No issues reported"

func dash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

// BuildDocument lays out a snapshot. The total is computed here from the
// rows rather than taken from snap.TotalQty.
func BuildDocument(snap model.Snapshot, b Branding) Document {
	h := snap.Header
	doc := Document{
		Branding: b,
		Header:   h,
		Meta: []MetaField{
			{"Company", dash(h.CompanyName)},
			{"Customer Code", dash(h.CustomerCode)},
			{"Start Time", dash(h.StartTime)},
			{"End Time", dash(h.EndTime)},
			{"Date", dash(h.Date)},
			{"Auditor", dash(h.CheckedBy)},
		},
		Rows:    make([]ItemRow, 0, len(snap.Items)),
		Auditor: h.CheckedBy,
	}

	for i, it := range snap.Items {
		pcs := it.PCS
		if pcs < 0 {
			pcs = 0
		}
		doc.Rows = append(doc.Rows, ItemRow{
			No:      i + 1,
			Model:   dash(it.Model),
			GB:      dash(it.GB),
			Color:   dash(it.Color),
			COO:     dash(it.COO),
			Spec:    dash(it.Spec),
			Remarks: it.Remarks,
			PCS:     pcs,
		})
		doc.Total += pcs
	}

	for _, key := range model.ChecklistKeys {
		entry := snap.Checklist[key]
		doc.Checklist = append(doc.Checklist, ChecklistLine{Key: key, Checked: entry.Checked, Count: entry.Count})
	}
	return doc
}

// CheckedLines returns only the checked checklist entries, in key order.
func (d Document) CheckedLines() []ChecklistLine {
	var out []ChecklistLine
	for _, l := range d.Checklist {
		if l.Checked {
			out = append(out, l)
		}
	}
	return out
}

// MetaPairs groups Meta two per row for the key/value table.
func (d Document) MetaPairs() [][]MetaField {
	var rows [][]MetaField
	for i := 0; i < len(d.Meta); i += 2 {
		end := i + 2
		if end > len(d.Meta) {
			end = len(d.Meta)
		}
		rows = append(rows, d.Meta[i:end])
	}
	return rows
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename is the download name of the PDF export.
func Filename(h model.ReportHeader) string {
	code := strings.TrimSpace(h.CustomerCode)
	code = strings.Trim(unsafeFilenameChars.ReplaceAllString(code, "_"), "_")
	if code == "" {
		code = "Report"
	}
	return "Secured_Inspection_" + code + ".pdf"
}
