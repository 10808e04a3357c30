package record

import (
	"fmt"

	"auditform/model"
)

// SetChecked toggles a checklist entry. The stored count is kept either way.
func (s *Session) SetChecked(key string, checked bool) (model.ChecklistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.checklist[key]
	if !ok {
		return model.ChecklistEntry{}, fmt.Errorf("%w: %q", ErrUnknownChecklistKey, key)
	}
	entry.Checked = checked
	s.setEntryLocked(key, entry)
	return entry, nil
}

// SetCount stores a count coerced with ParseCount.
func (s *Session) SetCount(key, value string) (model.ChecklistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.checklist[key]
	if !ok {
		return model.ChecklistEntry{}, fmt.Errorf("%w: %q", ErrUnknownChecklistKey, key)
	}
	entry.Count = ParseCount(value)
	s.setEntryLocked(key, entry)
	return entry, nil
}

func (s *Session) setEntryLocked(key string, entry model.ChecklistEntry) {
	next := s.checklist.Clone()
	next[key] = entry
	s.checklist = next
}

// Checklist returns a copy of the checklist.
func (s *Session) Checklist() model.Checklist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checklist.Clone()
}
