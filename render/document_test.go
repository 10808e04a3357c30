package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditform/model"
)

var testBranding = Branding{
	Title:        "Secured Logistics Solution FZCO",
	AddressLines: []string{"Dubai Airport Free Zone | UAE"},
}

func sampleSnapshot() model.Snapshot {
	items := []model.InspectionItem{
		{ID: "a", Model: "Galaxy A36", GB: "8/128GB", PCS: 2, Color: "Awesome Black", Spec: "SM-A366BZKPMEA"},
		{ID: "b", Model: "Galaxy A16", PCS: 4, Spec: "SM-A165F"},
	}
	cl := model.NewChecklist()
	cl["PACK OPEN"] = model.ChecklistEntry{Checked: true, Count: 3}
	cl["LOOSE BOX"] = model.ChecklistEntry{Checked: false, Count: 7}
	return model.Snapshot{
		Header: model.ReportHeader{
			CompanyName:  "Acme Trading",
			CustomerCode: "C-104",
			Date:         "2026-03-14",
			StartTime:    "09:05",
			EndTime:      "10:40",
			CheckedBy:    "Hussein Badawi",
		},
		Items:     items,
		Checklist: cl,
		TotalQty:  model.SumQuantity(items),
	}
}

func TestBuildDocument(t *testing.T) {
	snap := sampleSnapshot()
	doc := BuildDocument(snap, testBranding)

	assert.Equal(t, 6, doc.Total)
	assert.Equal(t, snap.TotalQty, doc.Total)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, 1, doc.Rows[0].No)
	assert.Equal(t, "-", doc.Rows[1].GB)
	assert.Equal(t, "-", doc.Rows[1].Color)
	assert.Equal(t, "Hussein Badawi", doc.Auditor)

	require.Len(t, doc.Checklist, len(model.ChecklistKeys))
	for i, line := range doc.Checklist {
		assert.Equal(t, model.ChecklistKeys[i], line.Key)
	}

	checked := doc.CheckedLines()
	require.Len(t, checked, 1)
	assert.Equal(t, "PACK OPEN", checked[0].Key)
	assert.Equal(t, 3, checked[0].Count)
}

func TestBuildDocument_BlankMeta(t *testing.T) {
	snap := sampleSnapshot()
	snap.Header.CompanyName = "  "
	snap.Header.CustomerCode = ""
	doc := BuildDocument(snap, testBranding)

	assert.Equal(t, MetaField{"Company", "-"}, doc.Meta[0])
	assert.Equal(t, MetaField{"Customer Code", "-"}, doc.Meta[1])

	pairs := doc.MetaPairs()
	require.Len(t, pairs, 3)
	assert.Equal(t, "Date", pairs[2][0].Label)
	assert.Equal(t, "Auditor", pairs[2][1].Label)
}

func TestBuildDocument_IgnoresStaleTotal(t *testing.T) {
	snap := sampleSnapshot()
	snap.TotalQty = 99
	snap.Items[1].PCS = -3

	doc := BuildDocument(snap, testBranding)
	assert.Equal(t, 2, doc.Total)
	assert.Equal(t, 0, doc.Rows[1].PCS)
}

func TestFilename(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"C-104", "Secured_Inspection_C-104.pdf"},
		{"", "Secured_Inspection_Report.pdf"},
		{"   ", "Secured_Inspection_Report.pdf"},
		{"AB/12 x", "Secured_Inspection_AB_12_x.pdf"},
		{"///", "Secured_Inspection_Report.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(model.ReportHeader{CustomerCode: tt.code}))
		})
	}
}

func TestRenderDocument_TotalsAgree(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	doc := BuildDocument(sampleSnapshot(), testBranding)

	for _, mode := range []Mode{ModePrint, ModePDF} {
		var buf bytes.Buffer
		require.NoError(t, r.RenderDocument(&buf, doc, mode))
		assert.Contains(t, buf.String(), `<td class="num total">6</td>`, "mode %s", mode)
	}
}

func TestRenderDocument_PrintShowsAllKeys(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderDocument(&buf, BuildDocument(sampleSnapshot(), testBranding), ModePrint))
	out := buf.String()

	for _, key := range model.ChecklistKeys {
		assert.Contains(t, out, key)
	}
	assert.Equal(t, 10, strings.Count(out, `<li class="off">`))
	assert.Contains(t, out, "Assigned Audit Inspector")
	assert.Contains(t, out, "Authorized Verification Signature")
	assert.Contains(t, out, "Shift Window")
	assert.NotContains(t, out, NoIssuesLabel)
}

func TestRenderDocument_PDFPlaceholder(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	snap := sampleSnapshot()
	snap.Checklist = model.NewChecklist()
	var buf bytes.Buffer
	require.NoError(t, r.RenderDocument(&buf, BuildDocument(snap, testBranding), ModePDF))
	out := buf.String()

	assert.Contains(t, out, "<td>No issues reported</td><td class=\"num\">-</td>")
	assert.Contains(t, out, "TOTAL UNITS AUDITED")
	assert.Contains(t, out, "SECURED LOGISTICS SOLUTION FZCO")
	assert.NotContains(t, out, "PACK ORIGINAL")
}
