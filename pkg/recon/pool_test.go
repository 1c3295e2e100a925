package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftworks/recon-api-go/pkg/models"
)

func poolFixture() (*Aggregation, []models.ShiftSlot) {
	agg := AggregateResponses([]models.AttendanceResponse{
		{MemberID: "m1", TargetDateID: "d1", Value: models.ResponseAttending, RespondedAt: ts(0)},
		{MemberID: "m2", TargetDateID: "d1", Value: models.ResponseAttending, RespondedAt: ts(0)},
		{MemberID: "m3", TargetDateID: "d1", Value: models.ResponseAbsent, RespondedAt: ts(0)},
		{MemberID: "m4", TargetDateID: "d2", Value: models.ResponseAttending, RespondedAt: ts(0)},
	})
	slots := []models.ShiftSlot{
		{ID: "s1", InstanceName: "Front", StartTime: "09:00", EndTime: "13:00", RequiredCount: 2},
		{ID: "s2", InstanceName: "Back", StartTime: "13:00", EndTime: "18:00", RequiredCount: 1},
	}
	return agg, slots
}

func TestResolvePool_AttendingMinusAssigned(t *testing.T) {
	agg, slots := poolFixture()
	assignments := []models.ShiftAssignment{
		{ID: "a1", SlotID: "s1", MemberID: "m2", Status: models.AssignmentConfirmed},
	}

	pool := ResolvePool("d1", agg, slots, assignments)

	assert.Equal(t, []string{"m1"}, pool.Members)
	assert.False(t, pool.Contains("m2"))
	assert.False(t, pool.Contains("m3"))
	// m4 answered for a different date only.
	assert.False(t, pool.Contains("m4"))
}

func TestResolvePool_AssignedLabels(t *testing.T) {
	agg, slots := poolFixture()
	assignments := []models.ShiftAssignment{
		{ID: "a1", SlotID: "s2", MemberID: "m1", Status: models.AssignmentConfirmed},
	}

	pool := ResolvePool("d1", agg, slots, assignments)

	require.Contains(t, pool.AssignedLabels, "m1")
	assert.Equal(t, "Back 13:00-18:00", pool.AssignedLabels["m1"])
	assert.NotContains(t, pool.AssignedLabels, "m2")
}

func TestResolvePool_CancelledAssignmentKeepsMemberInPool(t *testing.T) {
	agg, slots := poolFixture()
	assignments := []models.ShiftAssignment{
		{ID: "a1", SlotID: "s1", MemberID: "m1", Status: models.AssignmentCancelled},
	}

	pool := ResolvePool("d1", agg, slots, assignments)

	assert.True(t, pool.Contains("m1"))
	assert.NotContains(t, pool.AssignedLabels, "m1")
}

func TestResolvePool_AssignedAnywhereOnDateExcludes(t *testing.T) {
	// A confirmed assignment on any slot of the date excludes the member,
	// not only assignments on the slot under edit.
	agg, slots := poolFixture()
	for _, slotID := range []string{"s1", "s2"} {
		assignments := []models.ShiftAssignment{
			{ID: "a1", SlotID: slotID, MemberID: "m1", Status: models.AssignmentConfirmed},
		}
		pool := ResolvePool("d1", agg, slots, assignments)
		assert.False(t, pool.Contains("m1"), "slot %s", slotID)
	}
}

func TestResolvePool_Idempotent(t *testing.T) {
	agg, slots := poolFixture()
	assignments := []models.ShiftAssignment{
		{ID: "a1", SlotID: "s1", MemberID: "m2", Status: models.AssignmentConfirmed},
	}

	first := ResolvePool("d1", agg, slots, assignments)
	second := ResolvePool("d1", agg, slots, assignments)

	assert.Equal(t, first, second)
}

func TestResolvePool_NoSlots(t *testing.T) {
	agg, _ := poolFixture()

	pool := ResolvePool("d1", agg, nil, nil)

	assert.Equal(t, []string{"m1", "m2"}, pool.Members)
	assert.Empty(t, pool.AssignedLabels)
}
