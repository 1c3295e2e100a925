package recon

import (
	"sort"

	"github.com/shiftworks/recon-api-go/pkg/models"
)

// Pool is the set of members assignable on one target date: attending
// members minus members already holding a confirmed assignment anywhere
// on that date. AssignedLabels annotates attendees who are already
// placed, keyed by member id.
type Pool struct {
	DateID         string            `json:"date_id"`
	Members        []string          `json:"members"`
	AssignedLabels map[string]string `json:"assigned_labels,omitempty"`
}

// Contains reports whether the member is assignable on the pool's date.
func (p Pool) Contains(memberID string) bool {
	for _, id := range p.Members {
		if id == memberID {
			return true
		}
	}
	return false
}

// ResolvePool computes the assignable pool for a target date from the
// aggregation and the confirmed assignments across all slots matched to
// that date. Pure and idempotent; recompute after every mutation.
func ResolvePool(dateID string, agg *Aggregation, slots []models.ShiftSlot, assignments []models.ShiftAssignment) Pool {
	slotByID := make(map[string]models.ShiftSlot, len(slots))
	for _, s := range slots {
		slotByID[s.ID] = s
	}

	assigned := make(map[string]string)
	for _, a := range assignments {
		if !a.Confirmed() {
			continue
		}
		assigned[a.MemberID] = slotLabel(slotByID[a.SlotID])
	}

	pool := Pool{DateID: dateID}
	for memberID, byDate := range agg.Responses {
		if byDate[dateID] != models.ResponseAttending {
			continue
		}
		if label, ok := assigned[memberID]; ok {
			if pool.AssignedLabels == nil {
				pool.AssignedLabels = make(map[string]string)
			}
			pool.AssignedLabels[memberID] = label
			continue
		}
		pool.Members = append(pool.Members, memberID)
	}
	sort.Strings(pool.Members)
	return pool
}

// slotLabel renders the "instance-slot" annotation shown next to an
// already-assigned attendee.
func slotLabel(s models.ShiftSlot) string {
	name := s.InstanceName
	if name == "" {
		name = UnclassifiedInstance
	}
	window := s.StartTime
	if s.EndTime != "" {
		window += "-" + s.EndTime
	}
	if window == "" {
		return name
	}
	return name + " " + window
}
