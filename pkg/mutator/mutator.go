// Package mutator is the command layer over the assignment collaborator.
// It fast-fails on stale local state, classifies remote failures into the
// reconciliation error taxonomy, and never mutates local state ahead of
// server confirmation; callers re-fetch and re-aggregate after success.
package mutator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shiftworks/recon-api-go/pkg/models"
	"github.com/shiftworks/recon-api-go/pkg/recon"
	"github.com/shiftworks/recon-api-go/pkg/services"
)

// Mutator executes assignment mutations against the assignment service.
type Mutator struct {
	assignments services.AssignmentService
	logger      *slog.Logger
}

// New builds a mutator. A nil logger uses the default slog logger.
func New(assignments services.AssignmentService, logger *slog.Logger) *Mutator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mutator{assignments: assignments, logger: logger}
}

// Assign creates a confirmed assignment of member onto the slot.
//
// The pool-membership and capacity prechecks are client-side fast-fails
// against the caller's last refresh; the assignment service re-checks
// capacity authoritatively and reports the race as *recon.ConflictError,
// which must not be retried until capacity state is refreshed.
func (m *Mutator) Assign(ctx context.Context, slot recon.SlotCapacity, pool recon.Pool, memberID, note string) (*models.ShiftAssignment, error) {
	if memberID == "" {
		return nil, &recon.ValidationError{Reason: "no member selected"}
	}
	if !pool.Contains(memberID) {
		return nil, &recon.ValidationError{Reason: fmt.Sprintf("member %s is not assignable on %s", memberID, pool.DateID)}
	}
	if slot.Full {
		return nil, &recon.ValidationError{Reason: fmt.Sprintf("slot %s has no remaining capacity", slot.Slot.ID)}
	}

	created, err := m.assignments.Create(ctx, slot.Slot.ID, memberID, note)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Unassign cancels a confirmed assignment. Cancelling an assignment that
// another session already cancelled succeeds without effect.
func (m *Mutator) Unassign(ctx context.Context, assignmentID string) error {
	if assignmentID == "" {
		return &recon.ValidationError{Reason: "no assignment selected"}
	}
	return m.assignments.Cancel(ctx, assignmentID)
}

// BulkItemFailure records one swallowed per-item error from a bulk
// roster replacement.
type BulkItemFailure struct {
	Op       string `json:"op"`
	TargetID string `json:"target_id"`
	Error    string `json:"error"`
}

// BulkReplaceReport is the structured outcome of a best-effort roster
// replacement. The batch is not atomic: Failures being non-empty means
// the slot can be over- or under-capacity relative to the desired roster
// until a later pass reconciles it.
type BulkReplaceReport struct {
	SlotID    string            `json:"slot_id"`
	Cancelled []string          `json:"cancelled"`
	Created   []string          `json:"created"`
	Failures  []BulkItemFailure `json:"failures,omitempty"`
}

// BulkReplace re-confirms a slot's entire roster in one step: it cancels
// every confirmed assignment not in desiredMemberIDs, then creates one
// for every desired member not already confirmed. Rosters larger than
// the slot's required count are rejected upfront without any service
// call. Each item proceeds independently; individual failures are logged,
// recorded in the report, and do not stop the batch.
func (m *Mutator) BulkReplace(ctx context.Context, slot recon.SlotCapacity, desiredMemberIDs []string) (*BulkReplaceReport, error) {
	if len(desiredMemberIDs) > slot.Slot.RequiredCount {
		return nil, &recon.ValidationError{
			Reason: fmt.Sprintf("roster of %d exceeds required count %d for slot %s",
				len(desiredMemberIDs), slot.Slot.RequiredCount, slot.Slot.ID),
		}
	}

	desired := make(map[string]bool, len(desiredMemberIDs))
	for _, id := range desiredMemberIDs {
		desired[id] = true
	}
	confirmed := make(map[string]bool, len(slot.Assignments))
	for _, a := range slot.Assignments {
		confirmed[a.MemberID] = true
	}

	report := &BulkReplaceReport{SlotID: slot.Slot.ID}

	for _, a := range slot.Assignments {
		if desired[a.MemberID] {
			continue
		}
		if err := m.assignments.Cancel(ctx, a.ID); err != nil {
			m.logger.Warn("bulk replace: cancel failed",
				"slot_id", slot.Slot.ID,
				"assignment_id", a.ID,
				"member_id", a.MemberID,
				"error", err)
			report.Failures = append(report.Failures, BulkItemFailure{
				Op:       "cancel",
				TargetID: a.ID,
				Error:    err.Error(),
			})
			continue
		}
		report.Cancelled = append(report.Cancelled, a.ID)
	}

	for _, memberID := range desiredMemberIDs {
		if confirmed[memberID] {
			continue
		}
		if _, err := m.assignments.Create(ctx, slot.Slot.ID, memberID, ""); err != nil {
			m.logger.Warn("bulk replace: create failed",
				"slot_id", slot.Slot.ID,
				"member_id", memberID,
				"error", err)
			report.Failures = append(report.Failures, BulkItemFailure{
				Op:       "create",
				TargetID: memberID,
				Error:    err.Error(),
			})
			continue
		}
		report.Created = append(report.Created, memberID)
	}

	return report, nil
}
