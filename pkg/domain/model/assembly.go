package model

import "github.com/google/uuid"

type Direction int

const (
	Up Direction = iota
	Down
)

func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	default:
		return 0, false
	}
}

type Entry struct {
	InstanceID uuid.UUID `json:"instanceId"`
	Part       Part      `json:"part"`
}

// Assembly is the in-progress burger: an optional frame that caps both ends
// and the ordered fillings between them.
type Assembly struct {
	Frame   *Part   `json:"frame"`
	Entries []Entry `json:"entries"`
}

func (a Assembly) Empty() bool {
	return a.Frame == nil && len(a.Entries) == 0
}

// Count is the number of fillings; the frame is not counted.
func (a Assembly) Count() int {
	return len(a.Entries)
}

func (a Assembly) Price() int64 {
	var total int64
	if a.Frame != nil {
		total += a.Frame.Price * 2
	}
	for _, entry := range a.Entries {
		total += entry.Part.Price
	}
	return total
}

// PartIDs lists the part identifiers in submission order: the frame on both
// ends with the fillings in stacking order between.
func (a Assembly) PartIDs() []string {
	ids := make([]string, 0, len(a.Entries)+2)
	if a.Frame != nil {
		ids = append(ids, a.Frame.ID)
	}
	for _, entry := range a.Entries {
		ids = append(ids, entry.Part.ID)
	}
	if a.Frame != nil {
		ids = append(ids, a.Frame.ID)
	}
	return ids
}

func (a Assembly) Clone() Assembly {
	clone := Assembly{Entries: make([]Entry, len(a.Entries))}
	copy(clone.Entries, a.Entries)
	if a.Frame != nil {
		frame := *a.Frame
		clone.Frame = &frame
	}
	return clone
}
