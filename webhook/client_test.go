package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditform/model"
)

func sampleSnapshot() model.Snapshot {
	cl := model.NewChecklist()
	cl["MASTER"] = model.ChecklistEntry{Checked: true, Count: 3}
	items := []model.InspectionItem{{ID: "a", Model: "Galaxy A36", PCS: 2}}
	return model.Snapshot{
		Header:    model.ReportHeader{CompanyName: "Acme", CustomerCode: "C-001"},
		Items:     items,
		Checklist: cl,
		TotalQty:  model.SumQuantity(items),
	}
}

func TestMarshal_PayloadShape(t *testing.T) {
	body, err := Marshal(sampleSnapshot())
	require.NoError(t, err)

	var doc struct {
		Header struct {
			CompanyName string `json:"companyName"`
		} `json:"header"`
		Items     []map[string]any `json:"items"`
		Checklist map[string]struct {
			Checked bool `json:"checked"`
			Count   int  `json:"count"`
		} `json:"checklist"`
		TotalQty int `json:"totalQty"`
	}
	require.NoError(t, json.Unmarshal(body, &doc))

	assert.Equal(t, "Acme", doc.Header.CompanyName)
	assert.Len(t, doc.Items, 1)
	assert.Equal(t, 3, doc.Checklist["MASTER"].Count)
	assert.True(t, doc.Checklist["MASTER"].Checked)
	assert.Len(t, doc.Checklist, 11)
	assert.Equal(t, 2, doc.TotalQty)
}

func TestMarshal_EmptyItemsIsArray(t *testing.T) {
	body, err := Marshal(model.Snapshot{Checklist: model.NewChecklist()})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"items":[]`)
}

func TestClient_Send(t *testing.T) {
	var got []byte
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		got, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusFound)
		_, _ = w.Write([]byte("<html>moved</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, WithHTTPClient(&http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}))
	res, err := c.Send(context.Background(), sampleSnapshot())
	require.NoError(t, err, "any response counts as delivered")
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Equal(t, "application/json", contentType)
	assert.Contains(t, string(got), `"companyName":"Acme"`)
}

func TestClient_Send_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Send(context.Background(), sampleSnapshot())
	require.Error(t, err)
}

func TestClient_Send_NotConfigured(t *testing.T) {
	_, err := NewClient("", 0).Send(context.Background(), sampleSnapshot())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
