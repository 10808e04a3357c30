package record

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"auditform/model"
)

func newItemID() string {
	return uuid.NewString()
}

// ItemFields lists the editable item fields by their JSON name.
var ItemFields = []string{"model", "gb", "pcs", "color", "coo", "spec", "remarks"}

func newItem(id string) model.InspectionItem {
	return model.InspectionItem{ID: id, PCS: 1}
}

// AddItem appends a blank line item with quantity 1 and returns it.
func (s *Session) AddItem() model.InspectionItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := newItem(s.newID())
	next := make([]model.InspectionItem, len(s.items), len(s.items)+1)
	copy(next, s.items)
	s.items = append(next, item)
	return item
}

// UpdateItemField replaces one field of the item with the given id.
// "pcs" is coerced with ParseCount.
func (s *Session) UpdateItemField(id, field, value string) (model.InspectionItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.InspectionItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	updated := s.items[idx]
	if err := setItemField(&updated, field, value); err != nil {
		return model.InspectionItem{}, err
	}

	next := make([]model.InspectionItem, len(s.items))
	copy(next, s.items)
	next[idx] = updated
	s.items = next
	return updated, nil
}

func setItemField(item *model.InspectionItem, field, value string) error {
	switch field {
	case "model":
		item.Model = value
	case "gb":
		item.GB = value
	case "pcs":
		item.PCS = ParseCount(value)
	case "color":
		item.Color = value
	case "coo":
		item.COO = value
	case "spec":
		item.Spec = value
	case "remarks":
		item.Remarks = value
	default:
		return fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownField, field, strings.Join(ItemFields, ", "))
	}
	return nil
}

// RemoveItem deletes the item with the given id. Unknown ids are ignored.
func (s *Session) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.InspectionItem, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	s.items = next
}

// Items returns a copy of the current item list.
func (s *Session) Items() []model.InspectionItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.InspectionItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Session) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.SumQuantity(s.items)
}

func (s *Session) indexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
