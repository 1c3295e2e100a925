package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftworks/recon-api-go/pkg/models"
)

func sortFixture() ([]models.Member, *Aggregation) {
	members := []models.Member{
		{ID: "m1", Name: "Carol", RoleIDs: []string{"r1"}},
		{ID: "m2", Name: "Alice", RoleIDs: []string{"r2"}},
		{ID: "m3", Name: "Bob", RoleIDs: []string{"r1", "r2"}},
		{ID: "m4", Name: "Dave", RoleIDs: []string{"r3"}},
	}
	agg := AggregateResponses([]models.AttendanceResponse{
		{MemberID: "m1", TargetDateID: "d1", Value: models.ResponseAbsent, RespondedAt: ts(0)},
		{MemberID: "m1", TargetDateID: "d2", Value: models.ResponseAttending, RespondedAt: ts(0)},
		{MemberID: "m2", TargetDateID: "d1", Value: models.ResponseAttending, RespondedAt: ts(0)},
		{MemberID: "m2", TargetDateID: "d2", Value: models.ResponseAttending, RespondedAt: ts(0)},
		{MemberID: "m3", TargetDateID: "d1", Value: models.ResponseUndecided, RespondedAt: ts(0)},
	})
	return members, agg
}

func names(ms []models.Member) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func TestSortMembers_ByName(t *testing.T) {
	members, agg := sortFixture()
	e := NewEngine("en")

	sorted := e.SortMembers(members, agg, nil, SortState{Key: SortByName})

	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Dave"}, names(sorted))
}

func TestSortMembers_ReversalLaw(t *testing.T) {
	members, agg := sortFixture()
	e := NewEngine("en")

	asc := e.SortMembers(members, agg, nil, SortState{Key: SortByName})
	desc := e.SortMembers(members, agg, nil, SortState{Key: SortByName, Desc: true})

	require.Len(t, desc, len(asc))
	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
}

func TestSortMembers_ByAttendingCount(t *testing.T) {
	members, agg := sortFixture()
	e := NewEngine("en")

	sorted := e.SortMembers(members, agg, nil, SortState{Key: SortByAttendingCount})

	// m3 and m4 have zero attending; id breaks the tie.
	assert.Equal(t, []string{"Bob", "Dave", "Carol", "Alice"}, names(sorted))
}

func TestSortMembers_ByDateResponse(t *testing.T) {
	members, agg := sortFixture()
	e := NewEngine("en")

	sorted := e.SortMembers(members, agg, nil, SortState{Key: SortByDateResponse, DateID: "d1"})

	// attending < undecided < absent < no response
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Dave"}, names(sorted))

	// Every attending row strictly before every absent row.
	rankOf := func(m models.Member) int { return responseRank(agg.Response(m.ID, "d1")) }
	for i, m := range sorted {
		if rankOf(m) != rankAttending {
			continue
		}
		for j := 0; j < i; j++ {
			assert.NotEqual(t, rankAbsent, rankOf(sorted[j]))
		}
	}
}

func TestSortMembers_RoleFilterORSemantics(t *testing.T) {
	members, agg := sortFixture()
	e := NewEngine("en")

	sorted := e.SortMembers(members, agg, []string{"r2"}, SortState{Key: SortByName})

	assert.Equal(t, []string{"Alice", "Bob"}, names(sorted))

	all := e.SortMembers(members, agg, nil, SortState{Key: SortByName})
	assert.Len(t, all, 4)
}

func TestSortMembers_GroupingByFilterSelectionOrder(t *testing.T) {
	members, agg := sortFixture()
	e := NewEngine("en")

	// Alice matches only r2, so she sorts after every r1 member even
	// though her name sorts first.
	sorted := e.SortMembers(members, agg, []string{"r1", "r2"}, SortState{Key: SortByName})

	assert.Equal(t, []string{"Bob", "Carol", "Alice"}, names(sorted))
}

func TestSortMembers_SingleRoleDisablesGrouping(t *testing.T) {
	members, agg := sortFixture()
	e := NewEngine("en")

	sorted := e.SortMembers(members, agg, []string{"r1"}, SortState{Key: SortByName})

	assert.Equal(t, []string{"Bob", "Carol"}, names(sorted))
}

func TestSortState_Toggle(t *testing.T) {
	var s SortState

	s = s.Toggle(SortByName, "")
	assert.Equal(t, SortState{Key: SortByName}, s)

	// Re-selecting the same key flips direction.
	s = s.Toggle(SortByName, "")
	assert.True(t, s.Desc)

	// A different key resets to ascending.
	s = s.Toggle(SortByDateResponse, "d1")
	assert.Equal(t, SortState{Key: SortByDateResponse, DateID: "d1"}, s)

	// Same key with a different date is a new selection, not a flip.
	s = s.Toggle(SortByDateResponse, "d2")
	assert.Equal(t, SortState{Key: SortByDateResponse, DateID: "d2"}, s)

	// Leaving date_attending clears the remembered date.
	s = s.Toggle(SortByAttendingCount, "")
	assert.Equal(t, SortState{Key: SortByAttendingCount}, s)
}
