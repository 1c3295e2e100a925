package services

import (
	"context"

	"github.com/shiftworks/recon-api-go/pkg/models"
)

// Session identifies the acting user for every collaborator call. It is
// passed explicitly into service construction; no ambient globals.
type Session struct {
	ActorID string
}

// AssignmentFilter narrows ListAssignments. Zero-value fields are
// ignored; Status is usually models.AssignmentConfirmed.
type AssignmentFilter struct {
	SlotIDs  []string
	MemberID string
	Status   models.AssignmentStatus
}

// AttendanceService reads collections and their raw response lists.
type AttendanceService interface {
	GetCollection(ctx context.Context, id string) (*models.Collection, error)
	GetResponses(ctx context.Context, collectionID string) ([]models.AttendanceResponse, error)
}

// SlotService reads slot definitions for a business day.
type SlotService interface {
	ListSlots(ctx context.Context, businessDayID string) ([]models.ShiftSlot, error)
}

// AssignmentService is the authoritative owner of assignment records.
// Create enforces slot capacity and returns *recon.ConflictError when
// the slot is already full; Cancel is idempotent on an already-cancelled
// assignment.
type AssignmentService interface {
	ListAssignments(ctx context.Context, f AssignmentFilter) ([]models.ShiftAssignment, error)
	Create(ctx context.Context, slotID, memberID, note string) (*models.ShiftAssignment, error)
	Cancel(ctx context.Context, assignmentID string) error
}

// MemberService reads the active member list and role definitions.
type MemberService interface {
	ListActiveMembers(ctx context.Context) ([]models.Member, error)
	ListRoles(ctx context.Context) ([]models.Role, error)
}

// BusinessDayService reads the operating days of an event; a target date
// maps to a business day by calendar-date equality.
type BusinessDayService interface {
	ListBusinessDays(ctx context.Context, eventID string) ([]models.BusinessDay, error)
}

// Registry bundles the collaborators the reconciliation core consumes.
type Registry struct {
	Attendance   AttendanceService
	Slots        SlotService
	Assignments  AssignmentService
	Members      MemberService
	BusinessDays BusinessDayService
}
