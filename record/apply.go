package record

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"

	"auditform/model"
)

var ErrEmptyResult = errors.New("empty extraction result")

// ApplyExtraction merges a successful scan into the record.
//
// Header: a non-empty extracted company or customer code replaces the current
// value; blank extracted values leave the current value alone.
// Items: appended after the existing ones with fresh identifiers, never merged,
// with the field values as extracted. Catalog values are only written in when
// completion is enabled. The whole batch is prepared before the record is touched.
func (s *Session) ApplyExtraction(res *model.ExtractionResult) ([]model.InspectionItem, error) {
	if res == nil {
		return nil, ErrEmptyResult
	}

	added := make([]model.InspectionItem, 0, len(res.Items))
	for _, ex := range res.Items {
		item := model.InspectionItem{
			ID:      s.newID(),
			Model:   cleanText(ex.Model),
			GB:      cleanText(ex.GB),
			PCS:     ClampCount(ex.PCS),
			Color:   cleanText(ex.Color),
			COO:     cleanText(ex.COO),
			Spec:    cleanText(ex.Spec),
			Remarks: cleanText(ex.Remarks),
		}
		if s.completion {
			s.completeFromCatalog(&item)
		}
		added = append(added, item)
	}
	company := cleanText(res.Company)
	customerCode := cleanText(res.CustomerCode)

	s.mu.Lock()
	defer s.mu.Unlock()

	if company != "" {
		s.header.CompanyName = company
	}
	if customerCode != "" {
		s.header.CustomerCode = customerCode
	}

	next := make([]model.InspectionItem, 0, len(s.items)+len(added))
	next = append(next, s.items...)
	s.items = append(next, added...)
	return added, nil
}

func (s *Session) lookup(spec string) *model.CatalogDevice {
	if s.catalog == nil || spec == "" {
		return nil
	}
	dev, err := s.catalog.LookupSpec(spec)
	if err != nil {
		return nil
	}
	return dev
}

func hasBlankDeviceField(item model.InspectionItem) bool {
	return item.Model == "" || item.GB == "" || item.Color == "" || item.COO == ""
}

// CatalogSuggestions returns, by item id, the catalog device matching each
// item's spec code when the item still has a blank model, gb, color or coo.
// The record is not changed.
func (s *Session) CatalogSuggestions(items []model.InspectionItem) map[string]model.CatalogDevice {
	var out map[string]model.CatalogDevice
	for _, it := range items {
		if !hasBlankDeviceField(it) {
			continue
		}
		dev := s.lookup(it.Spec)
		if dev == nil {
			continue
		}
		if out == nil {
			out = make(map[string]model.CatalogDevice)
		}
		out[it.ID] = *dev
	}
	return out
}

// completeFromCatalog fills blank model, gb, color and coo from the catalog entry
// for the item's spec code. Values read off the label always win.
func (s *Session) completeFromCatalog(item *model.InspectionItem) {
	dev := s.lookup(item.Spec)
	if dev == nil {
		return
	}
	if item.Model == "" {
		item.Model = dev.Model
	}
	if item.GB == "" {
		item.GB = dev.GB
	}
	if item.Color == "" {
		item.Color = dev.Color
	}
	if item.COO == "" {
		item.COO = dev.COO
	}
}

// cleanText folds full-width and compatibility characters that label OCR
// tends to produce, then trims surrounding space.
func cleanText(v string) string {
	return strings.TrimSpace(norm.NFKC.String(v))
}
