package models

import "time"

// ResponseValue is a member's answer for one target date.
type ResponseValue string

const (
	ResponseAttending ResponseValue = "attending"
	ResponseAbsent    ResponseValue = "absent"
	ResponseUndecided ResponseValue = "undecided"
)

// AssignmentStatus is the lifecycle state of a shift assignment.
// Cancelled is terminal; there is no reactivation path.
type AssignmentStatus string

const (
	AssignmentConfirmed AssignmentStatus = "confirmed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// Member is a person under attendance collection
type Member struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	RoleIDs []string `json:"role_ids,omitempty"`
}

// HasRole reports whether the member carries the given role.
func (m Member) HasRole(roleID string) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// Role is used only for filtering and grouping, never for eligibility
type Role struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// Collection is one attendance-collection campaign over a set of target dates.
type Collection struct {
	ID      string       `json:"id"`
	EventID string       `json:"event_id"`
	Title   string       `json:"title"`
	Dates   []TargetDate `json:"dates"`
}

// TargetDate is a calendar date under attendance collection, identified
// separately from the calendar dates it maps onto.
type TargetDate struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	DisplayOrder int       `json:"display_order"`
}

// AttendanceResponse is one member's answer for one target date. At most
// one response is current per (member, target date); when duplicates are
// observed the one with the latest RespondedAt wins.
type AttendanceResponse struct {
	MemberID     string        `json:"member_id"`
	TargetDateID string        `json:"target_date_id"`
	Value        ResponseValue `json:"value"`
	TimeFrom     string        `json:"time_from,omitempty"`
	TimeTo       string        `json:"time_to,omitempty"`
	Note         string        `json:"note,omitempty"`
	RespondedAt  time.Time     `json:"responded_at"`
}

// HasWindow reports whether the response carries a time window.
func (r AttendanceResponse) HasWindow() bool {
	return r.TimeFrom != "" || r.TimeTo != ""
}

// TimeWindow is the optional from/to attached to a response.
type TimeWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// BusinessDay is an operating-day definition owning zero or more shift
// slots; matched to a TargetDate by calendar-date equality.
type BusinessDay struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Date      time.Time `json:"date"`
	OpenTime  string    `json:"open_time,omitempty"`
	CloseTime string    `json:"close_time,omitempty"`
}

// SameDate reports whether the business day falls on the given calendar
// date, ignoring the time-of-day component.
func (b BusinessDay) SameDate(t time.Time) bool {
	by, bm, bd := b.Date.Date()
	ty, tm, td := t.Date()
	return by == ty && bm == tm && bd == td
}

// ShiftSlot is a capacity-bounded slot within a business day. Slots with
// an empty InstanceID fall into the sentinel unclassified group. Lower
// Priority sorts first.
type ShiftSlot struct {
	ID            string `json:"id"`
	BusinessDayID string `json:"business_day_id"`
	InstanceID    string `json:"instance_id,omitempty"`
	InstanceName  string `json:"instance_name,omitempty"`
	RequiredCount int    `json:"required_count"`
	Priority      int    `json:"priority"`
	StartTime     string `json:"start_time,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
}

// ShiftAssignment binds one member to one slot.
type ShiftAssignment struct {
	ID       string           `json:"id"`
	SlotID   string           `json:"slot_id"`
	MemberID string           `json:"member_id"`
	Status   AssignmentStatus `json:"status"`
	Note     string           `json:"note,omitempty"`
}

// Confirmed reports whether the assignment is active.
func (a ShiftAssignment) Confirmed() bool {
	return a.Status == AssignmentConfirmed
}
