package model

// ChecklistKeys is the closed, ordered set of condition categories.
var ChecklistKeys = []string{
	"PACK ORIGINAL",
	"BOX OUT SIDE DAMAGE",
	"OUT SIDE DAMAGE",
	"PACK OPEN",
	"DAMAGE PCS",
	"ACTIVE PCS",
	"UNCLEAN / STICKER BOX",
	"LOOSE BOX",
	"OPEN MASTER",
	"MASTER",
	"STICKERS PCS",
}

type ChecklistEntry struct {
	Checked bool `json:"checked"`
	Count   int  `json:"count"`
}

type Checklist map[string]ChecklistEntry

// NewChecklist returns a checklist with every key present and unchecked.
func NewChecklist() Checklist {
	cl := make(Checklist, len(ChecklistKeys))
	for _, key := range ChecklistKeys {
		cl[key] = ChecklistEntry{}
	}
	return cl
}

func IsChecklistKey(key string) bool {
	for _, k := range ChecklistKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Clone copies the checklist so that the result can be handed out safely.
func (cl Checklist) Clone() Checklist {
	out := make(Checklist, len(cl))
	for k, v := range cl {
		out[k] = v
	}
	return out
}
