package recon

import (
	"sort"

	"github.com/shiftworks/recon-api-go/pkg/models"
)

// SortKey selects the active comparator for the response matrix.
type SortKey string

const (
	SortByName           SortKey = "name"
	SortByAttendingCount SortKey = "attending_count"
	SortByDateResponse   SortKey = "date_attending"
)

// Response ranks for date_attending ordering; ascending puts attending
// first and members who never answered last.
const (
	rankAttending = 0
	rankUndecided = 1
	rankAbsent    = 2
	rankNone      = 3
)

func responseRank(v models.ResponseValue) int {
	switch v {
	case models.ResponseAttending:
		return rankAttending
	case models.ResponseUndecided:
		return rankUndecided
	case models.ResponseAbsent:
		return rankAbsent
	default:
		return rankNone
	}
}

// SortState is the active sort selection.
type SortState struct {
	Key    SortKey `json:"key"`
	Desc   bool    `json:"desc"`
	DateID string  `json:"date_id,omitempty"`
}

// Toggle applies a sort selection: re-selecting the current key flips the
// direction; selecting a different key resets to ascending and, when
// leaving date_attending, clears the remembered date parameter.
func (s SortState) Toggle(key SortKey, dateID string) SortState {
	if key != SortByDateResponse {
		dateID = ""
	}
	if key == s.Key && dateID == s.DateID {
		s.Desc = !s.Desc
		return s
	}
	return SortState{Key: key, DateID: dateID}
}

// MatchesFilter reports whether the member passes the role filter: an
// empty filter passes everyone, otherwise the member's role set must
// intersect the selected roles (OR semantics).
func MatchesFilter(m models.Member, selectedRoles []string) bool {
	if len(selectedRoles) == 0 {
		return true
	}
	for _, roleID := range selectedRoles {
		if m.HasRole(roleID) {
			return true
		}
	}
	return false
}

// filterGroupIndex is the index of the member's first matching role in
// filter-selection order; used as the stable primary key when two or
// more roles are selected.
func filterGroupIndex(m models.Member, selectedRoles []string) int {
	for i, roleID := range selectedRoles {
		if m.HasRole(roleID) {
			return i
		}
	}
	return len(selectedRoles)
}

// SortMembers filters the member list by the selected roles and orders
// it by the sort state. With two or more roles selected, members group
// by their first matching role in selection order and the active sort
// key only orders within a group. Member id breaks remaining ties so the
// ordering is total and direction toggling yields the exact reverse.
func (e *Engine) SortMembers(members []models.Member, agg *Aggregation, selectedRoles []string, state SortState) []models.Member {
	out := make([]models.Member, 0, len(members))
	for _, m := range members {
		if MatchesFilter(m, selectedRoles) {
			out = append(out, m)
		}
	}

	grouped := len(selectedRoles) >= 2
	coll := e.collator()

	cmp := func(a, b models.Member) int {
		var c int
		switch state.Key {
		case SortByAttendingCount:
			c = agg.AttendingCount(a.ID) - agg.AttendingCount(b.ID)
		case SortByDateResponse:
			c = responseRank(agg.Response(a.ID, state.DateID)) - responseRank(agg.Response(b.ID, state.DateID))
		default:
			c = coll.CompareString(a.Name, b.Name)
		}
		if c == 0 {
			switch {
			case a.ID < b.ID:
				c = -1
			case a.ID > b.ID:
				c = 1
			}
		}
		if state.Desc {
			c = -c
		}
		return c
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if grouped {
			ga, gb := filterGroupIndex(a, selectedRoles), filterGroupIndex(b, selectedRoles)
			if ga != gb {
				return ga < gb
			}
		}
		return cmp(a, b) < 0
	})
	return out
}
