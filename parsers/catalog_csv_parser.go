package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"auditform/model"
)

// ParseCatalogCSV reads a device catalog. Required columns: spec, model.
// Optional: gb, color, coo. Rows without spec or model are skipped.
func ParseCatalogCSV(r io.Reader) ([]model.CatalogDevice, error) {
	reader := csv.NewReader(SkipBOM(r))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex, err := getColIndex(header, []string{"spec", "model"})
	if err != nil {
		return nil, err
	}

	var records []model.CatalogDevice
	line := 1

	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Skipping unreadable catalog row", "line", line, "error", err)
			continue
		}

		get := func(key string) string {
			if idx, ok := colIndex[key]; ok && idx < len(rec) {
				return strings.TrimSpace(rec[idx])
			}
			return ""
		}

		dev := model.CatalogDevice{
			Spec:  strings.ToUpper(get("spec")),
			Model: get("model"),
			GB:    get("gb"),
			Color: get("color"),
			COO:   get("coo"),
		}
		if dev.Spec == "" || dev.Model == "" {
			slog.Warn("Skipping catalog row without spec or model", "line", line)
			continue
		}
		records = append(records, dev)
	}

	return records, nil
}
