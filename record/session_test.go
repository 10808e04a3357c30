package record

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditform/model"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC)
}

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	n := 0
	gen := func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
	opts = append([]Option{WithClock(fixedClock), WithIDGenerator(gen)}, opts...)
	return NewSession("Hussein Badawi", opts...)
}

func TestNewSession_Defaults(t *testing.T) {
	s := newTestSession(t)
	snap := s.Snapshot()

	assert.Equal(t, "2026-03-14", snap.Header.Date)
	assert.Equal(t, "09:05", snap.Header.StartTime)
	assert.Equal(t, "09:05", snap.Header.EndTime)
	assert.Equal(t, "Hussein Badawi", snap.Header.CheckedBy)
	assert.Empty(t, snap.Header.CompanyName)
	assert.Empty(t, snap.Items)
	assert.Len(t, snap.Checklist, 11)
	for _, key := range model.ChecklistKeys {
		assert.Equal(t, model.ChecklistEntry{}, snap.Checklist[key], key)
	}
	assert.Equal(t, 0, snap.TotalQty)
}

func TestSnapshot_DoesNotAlias(t *testing.T) {
	s := newTestSession(t)
	item := s.AddItem()

	snap := s.Snapshot()
	_, err := s.UpdateItemField(item.ID, "model", "Galaxy A36")
	require.NoError(t, err)
	_, err = s.SetCount("MASTER", "4")
	require.NoError(t, err)

	assert.Empty(t, snap.Items[0].Model)
	assert.Equal(t, 0, snap.Checklist["MASTER"].Count)

	snap.Items[0].PCS = 99
	assert.Equal(t, 1, s.TotalQuantity())
}

func TestReset(t *testing.T) {
	s := newTestSession(t)
	s.AddItem()
	_, err := s.SetHeaderField("companyName", "Acme")
	require.NoError(t, err)
	_, err = s.SetChecked("MASTER", true)
	require.NoError(t, err)

	s.Reset()
	snap := s.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Empty(t, snap.Header.CompanyName)
	assert.False(t, snap.Checklist["MASTER"].Checked)
}

func TestBusyFlags(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.BeginExtraction())
	assert.ErrorIs(t, s.BeginExtraction(), ErrBusy)
	assert.True(t, s.Status().Extracting)
	s.FailExtraction()
	assert.Equal(t, ExtractionFailedMessage, s.Status().LastError)
	s.EndExtraction()
	assert.False(t, s.Status().Extracting)

	require.NoError(t, s.BeginExtraction())
	assert.Empty(t, s.Status().LastError, "a new scan clears the previous error")
	s.EndExtraction()

	require.NoError(t, s.BeginSave())
	assert.ErrorIs(t, s.BeginSave(), ErrBusy)
	s.EndSave()
	assert.NoError(t, s.BeginSave())
}

func TestSetHeaderField(t *testing.T) {
	s := newTestSession(t)

	for _, field := range HeaderFields {
		_, err := s.SetHeaderField(field, "v-"+field)
		require.NoError(t, err, field)
	}
	h := s.Header()
	assert.Equal(t, "v-companyName", h.CompanyName)
	assert.Equal(t, "v-customerCode", h.CustomerCode)
	assert.Equal(t, "v-checkedBy", h.CheckedBy)

	_, err := s.SetHeaderField("nope", "x")
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, h, s.Header())
}
