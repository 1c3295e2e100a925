package recon

import (
	"github.com/shiftworks/recon-api-go/pkg/models"
)

// Aggregation is the lookup form of a collection's raw response list.
// Maps are keyed by member id, then target-date id.
type Aggregation struct {
	Responses map[string]map[string]models.ResponseValue
	Windows   map[string]map[string]models.TimeWindow
	Notes     map[string]string
}

// Response returns the current response for (member, date), or empty
// string when the member never answered for that date.
func (a *Aggregation) Response(memberID, dateID string) models.ResponseValue {
	return a.Responses[memberID][dateID]
}

// Window returns the time window for (member, date) if one was given.
func (a *Aggregation) Window(memberID, dateID string) (models.TimeWindow, bool) {
	w, ok := a.Windows[memberID][dateID]
	return w, ok
}

// AttendingCount counts attending responses across all dates for a member.
func (a *Aggregation) AttendingCount(memberID string) int {
	n := 0
	for _, v := range a.Responses[memberID] {
		if v == models.ResponseAttending {
			n++
		}
	}
	return n
}

// AggregateResponses turns a raw response list into lookup structures.
// Duplicate (member, date) records resolve latest-RespondedAt-wins, so
// exactly one response is current per pair. The note map keeps, per
// member, the note from the current response with the latest recording
// timestamp across all dates, independent of which date it answers.
//
// Pure transform; re-run it whenever the response list changes.
func AggregateResponses(records []models.AttendanceResponse) *Aggregation {
	// Resolve duplicates first so superseded responses contribute nothing.
	type key struct{ member, date string }
	current := make(map[key]models.AttendanceResponse, len(records))
	for _, r := range records {
		k := key{r.MemberID, r.TargetDateID}
		if prev, ok := current[k]; ok && !r.RespondedAt.After(prev.RespondedAt) {
			continue
		}
		current[k] = r
	}

	agg := &Aggregation{
		Responses: make(map[string]map[string]models.ResponseValue),
		Windows:   make(map[string]map[string]models.TimeWindow),
		Notes:     make(map[string]string),
	}
	noteAt := make(map[string]int64)

	for k, r := range current {
		if agg.Responses[k.member] == nil {
			agg.Responses[k.member] = make(map[string]models.ResponseValue)
		}
		agg.Responses[k.member][k.date] = r.Value

		if r.HasWindow() {
			if agg.Windows[k.member] == nil {
				agg.Windows[k.member] = make(map[string]models.TimeWindow)
			}
			agg.Windows[k.member][k.date] = models.TimeWindow{From: r.TimeFrom, To: r.TimeTo}
		}

		if r.Note != "" {
			ts := r.RespondedAt.UnixNano()
			if prev, ok := noteAt[k.member]; !ok || ts > prev {
				noteAt[k.member] = ts
				agg.Notes[k.member] = r.Note
			}
		}
	}

	return agg
}
