package model

import "time"

// InspectionItem is one audited device line of a record.
type InspectionItem struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	GB      string `json:"gb"` // RAM/storage descriptor, e.g. "8/128GB"
	PCS     int    `json:"pcs"`
	Color   string `json:"color"`
	COO     string `json:"coo"` // country of origin
	Spec    string `json:"spec"`
	Remarks string `json:"remarks"`
}

type ReportHeader struct {
	CompanyName  string `json:"companyName"`
	CustomerCode string `json:"customerCode"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	CheckedBy    string `json:"checkedBy"`
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// NewHeader returns the header of a fresh record. Start and end time both
// begin at the current time of day.
func NewHeader(now time.Time, auditor string) ReportHeader {
	return ReportHeader{
		Date:      now.Format(DateLayout),
		StartTime: now.Format(TimeLayout),
		EndTime:   now.Format(TimeLayout),
		CheckedBy: auditor,
	}
}

// Snapshot is an immutable copy of the record taken for export or persistence.
// Its JSON form is the webhook payload.
type Snapshot struct {
	Header    ReportHeader     `json:"header"`
	Items     []InspectionItem `json:"items"`
	Checklist Checklist        `json:"checklist"`
	TotalQty  int              `json:"totalQty"`
}

// SumQuantity adds up item quantities. Negative stored values count as 0.
func SumQuantity(items []InspectionItem) int {
	total := 0
	for _, it := range items {
		if it.PCS > 0 {
			total += it.PCS
		}
	}
	return total
}
