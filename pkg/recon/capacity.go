package recon

import (
	"sort"

	"github.com/shiftworks/recon-api-go/pkg/models"
)

// UnclassifiedInstance labels the sentinel group for slots that carry no
// instance reference. The group always sorts last.
const UnclassifiedInstance = "unclassified"

// SlotCapacity is one slot with its derived capacity fields.
type SlotCapacity struct {
	Slot           models.ShiftSlot         `json:"slot"`
	Assignments    []models.ShiftAssignment `json:"assignments"`
	ConfirmedCount int                      `json:"confirmed_count"`
	Remaining      int                      `json:"remaining"`
	Full           bool                     `json:"is_full"`
}

// InstanceGroup is the slots of one logical instance, ordered by
// ascending priority.
type InstanceGroup struct {
	InstanceID   string         `json:"instance_id"`
	InstanceName string         `json:"instance_name"`
	Slots        []SlotCapacity `json:"slots"`
}

// CapacityBoard is the read-only capacity view for one business day.
type CapacityBoard struct {
	Groups []InstanceGroup `json:"groups"`
}

// Slot looks up a slot's capacity entry by id.
func (b *CapacityBoard) Slot(slotID string) (SlotCapacity, bool) {
	for _, g := range b.Groups {
		for _, s := range g.Slots {
			if s.Slot.ID == slotID {
				return s, true
			}
		}
	}
	return SlotCapacity{}, false
}

// ConfirmedAssignments flattens every confirmed assignment on the board.
func (b *CapacityBoard) ConfirmedAssignments() []models.ShiftAssignment {
	var out []models.ShiftAssignment
	for _, g := range b.Groups {
		for _, s := range g.Slots {
			out = append(out, s.Assignments...)
		}
	}
	return out
}

// BuildCapacityBoard groups the business day's slots by instance, orders
// groups by locale-aware instance name with the unclassified group last,
// orders slots within a group by ascending priority, and derives
// confirmed/remaining/full per slot. Only confirmed assignments count
// toward capacity. The board never mutates assignments.
func (e *Engine) BuildCapacityBoard(slots []models.ShiftSlot, assignments []models.ShiftAssignment) CapacityBoard {
	confirmedBySlot := make(map[string][]models.ShiftAssignment)
	for _, a := range assignments {
		if a.Confirmed() {
			confirmedBySlot[a.SlotID] = append(confirmedBySlot[a.SlotID], a)
		}
	}

	groups := make(map[string]*InstanceGroup)
	var order []string
	for _, s := range slots {
		id := s.InstanceID
		g, ok := groups[id]
		if !ok {
			name := s.InstanceName
			if id == "" {
				name = UnclassifiedInstance
			}
			g = &InstanceGroup{InstanceID: id, InstanceName: name}
			groups[id] = g
			order = append(order, id)
		}
		confirmed := confirmedBySlot[s.ID]
		g.Slots = append(g.Slots, SlotCapacity{
			Slot:           s,
			Assignments:    confirmed,
			ConfirmedCount: len(confirmed),
			Remaining:      s.RequiredCount - len(confirmed),
			Full:           s.RequiredCount-len(confirmed) <= 0,
		})
	}

	coll := e.collator()
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		// Unclassified sorts last regardless of name.
		if a == "" || b == "" {
			return b == ""
		}
		return coll.CompareString(groups[a].InstanceName, groups[b].InstanceName) < 0
	})

	board := CapacityBoard{Groups: make([]InstanceGroup, 0, len(order))}
	for _, id := range order {
		g := groups[id]
		sort.SliceStable(g.Slots, func(i, j int) bool {
			a, b := g.Slots[i].Slot, g.Slots[j].Slot
			if a.Priority != b.Priority {
				return a.Priority < b.Priority
			}
			if a.StartTime != b.StartTime {
				return a.StartTime < b.StartTime
			}
			return a.ID < b.ID
		})
		board.Groups = append(board.Groups, *g)
	}
	return board
}
