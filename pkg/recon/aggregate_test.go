package recon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftworks/recon-api-go/pkg/models"
)

func ts(offsetMin int) time.Time {
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(offsetMin) * time.Minute)
}

func TestAggregateResponses_LatestTimestampWins(t *testing.T) {
	records := []models.AttendanceResponse{
		{MemberID: "m1", TargetDateID: "d1", Value: models.ResponseAttending, RespondedAt: ts(0)},
		{MemberID: "m1", TargetDateID: "d1", Value: models.ResponseAbsent, RespondedAt: ts(10)},
		{MemberID: "m1", TargetDateID: "d1", Value: models.ResponseUndecided, RespondedAt: ts(5)},
	}

	agg := AggregateResponses(records)

	require.Len(t, agg.Responses["m1"], 1)
	assert.Equal(t, models.ResponseAbsent, agg.Response("m1", "d1"))
}

func TestAggregateResponses_WindowOnlyWhenPresent(t *testing.T) {
	records := []models.AttendanceResponse{
		{MemberID: "m1", TargetDateID: "d1", Value: models.ResponseAttending, TimeFrom: "10:00", TimeTo: "15:00", RespondedAt: ts(0)},
		{MemberID: "m1", TargetDateID: "d2", Value: models.ResponseAttending, RespondedAt: ts(0)},
	}

	agg := AggregateResponses(records)

	w, ok := agg.Window("m1", "d1")
	require.True(t, ok)
	assert.Equal(t, models.TimeWindow{From: "10:00", To: "15:00"}, w)

	_, ok = agg.Window("m1", "d2")
	assert.False(t, ok)
}

func TestAggregateResponses_NoteLastWriteWinsByRecordingTime(t *testing.T) {
	// The later note was recorded for an earlier date; recording time
	// decides, not the date answered.
	records := []models.AttendanceResponse{
		{MemberID: "m1", TargetDateID: "d2", Value: models.ResponseAttending, Note: "late after 18:00", RespondedAt: ts(0)},
		{MemberID: "m1", TargetDateID: "d1", Value: models.ResponseAttending, Note: "can open up", RespondedAt: ts(30)},
		{MemberID: "m1", TargetDateID: "d3", Value: models.ResponseAbsent, RespondedAt: ts(60)},
	}

	agg := AggregateResponses(records)

	assert.Equal(t, "can open up", agg.Notes["m1"])
}

func TestAggregateResponses_SupersededNoteIgnored(t *testing.T) {
	// The note on a superseded duplicate must not leak into the note map.
	records := []models.AttendanceResponse{
		{MemberID: "m1", TargetDateID: "d1", Value: models.ResponseAttending, Note: "old note", RespondedAt: ts(0)},
		{MemberID: "m1", TargetDateID: "d1", Value: models.ResponseAttending, RespondedAt: ts(10)},
	}

	agg := AggregateResponses(records)

	assert.Empty(t, agg.Notes["m1"])
}

func TestAggregation_AttendingCount(t *testing.T) {
	records := []models.AttendanceResponse{
		{MemberID: "m1", TargetDateID: "d1", Value: models.ResponseAttending, RespondedAt: ts(0)},
		{MemberID: "m1", TargetDateID: "d2", Value: models.ResponseAbsent, RespondedAt: ts(0)},
		{MemberID: "m1", TargetDateID: "d3", Value: models.ResponseAttending, RespondedAt: ts(0)},
		{MemberID: "m2", TargetDateID: "d1", Value: models.ResponseUndecided, RespondedAt: ts(0)},
	}

	agg := AggregateResponses(records)

	assert.Equal(t, 2, agg.AttendingCount("m1"))
	assert.Equal(t, 0, agg.AttendingCount("m2"))
	assert.Equal(t, 0, agg.AttendingCount("nobody"))
}
