package parsers

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SkipBOM decodes r as UTF-8 and drops a leading byte order mark. A UTF-16
// BOM switches the decoder to UTF-16, which is how spreadsheet tools on
// Windows tend to save "Unicode text" exports.
func SkipBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// getColIndex maps header names (case-insensitive) to column positions and
// checks that every required column is present.
func getColIndex(header []string, required []string) (map[string]int, error) {
	colIndex := make(map[string]int)
	for i, colName := range header {
		colIndex[strings.ToLower(strings.TrimSpace(colName))] = i
	}
	for _, req := range required {
		if _, ok := colIndex[req]; !ok {
			return nil, fmt.Errorf("required header not found: %s", req)
		}
	}
	return colIndex, nil
}
