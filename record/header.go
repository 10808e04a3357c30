package record

import (
	"fmt"

	"auditform/model"
)

// HeaderFields lists the editable header fields by their JSON name.
var HeaderFields = []string{"companyName", "customerCode", "date", "startTime", "endTime", "checkedBy"}

// SetHeaderField replaces one header field. Values are stored as given.
func (s *Session) SetHeaderField(field, value string) (model.ReportHeader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.header
	switch field {
	case "companyName":
		h.CompanyName = value
	case "customerCode":
		h.CustomerCode = value
	case "date":
		h.Date = value
	case "startTime":
		h.StartTime = value
	case "endTime":
		h.EndTime = value
	case "checkedBy":
		h.CheckedBy = value
	default:
		return s.header, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	s.header = h
	return h, nil
}

func (s *Session) Header() model.ReportHeader {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.header
}
