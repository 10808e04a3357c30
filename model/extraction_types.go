package model

// ExtractedItem is one device read off a label by the vision service.
type ExtractedItem struct {
	Model   string `json:"model"`
	GB      string `json:"gb"`
	PCS     int    `json:"pcs"`
	Color   string `json:"color"`
	COO     string `json:"coo"`
	Spec    string `json:"spec"`
	Remarks string `json:"remarks"`
}

// ExtractionResult is the partial record returned by a successful scan.
type ExtractionResult struct {
	Company      string          `json:"company"`
	CustomerCode string          `json:"customerCode"`
	Items        []ExtractedItem `json:"items"`
}
