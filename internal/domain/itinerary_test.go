package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamio/backend/internal/domain"
)

// ---- ResizeItinerary -------------------------------------------------------

func TestResizeItinerary_GrowFromEmpty(t *testing.T) {
	got := domain.ResizeItinerary(nil, 3)

	require.Len(t, got, 3)
	for i, day := range got {
		assert.Equal(t, i+1, day.Day)
		assert.Empty(t, day.Description)
	}
}

func TestResizeItinerary_GrowPreservesExisting(t *testing.T) {
	prev := []domain.ItineraryDay{
		{Day: 1, Description: "Arrival and check-in"},
		{Day: 2, Description: "City tour"},
	}

	got := domain.ResizeItinerary(prev, 4)

	require.Len(t, got, 4)
	assert.Equal(t, "Arrival and check-in", got[0].Description)
	assert.Equal(t, "City tour", got[1].Description)
	assert.Equal(t, domain.ItineraryDay{Day: 3}, got[2])
	assert.Equal(t, domain.ItineraryDay{Day: 4}, got[3])
}

func TestResizeItinerary_ShrinkTruncatesTail(t *testing.T) {
	prev := []domain.ItineraryDay{
		{Day: 1, Description: "a"},
		{Day: 2, Description: "b"},
		{Day: 3, Description: "c"},
	}

	got := domain.ResizeItinerary(prev, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Description)
	assert.Equal(t, "b", got[1].Description)
}

func TestResizeItinerary_SameLengthIsStable(t *testing.T) {
	prev := []domain.ItineraryDay{{Day: 1, Description: "x"}, {Day: 2, Description: "y"}}

	got := domain.ResizeItinerary(prev, 2)

	assert.Equal(t, prev, got)
}

func TestResizeItinerary_ZeroDuration(t *testing.T) {
	prev := []domain.ItineraryDay{{Day: 1, Description: "x"}}

	assert.Empty(t, domain.ResizeItinerary(prev, 0))
	assert.Empty(t, domain.ResizeItinerary(prev, -1))
}

func TestResizeItinerary_DoesNotAliasInput(t *testing.T) {
	prev := []domain.ItineraryDay{{Day: 1, Description: "x"}, {Day: 2, Description: "y"}}

	got := domain.ResizeItinerary(prev, 2)
	got[0].Description = "changed"

	assert.Equal(t, "x", prev[0].Description)
}

// ---- SetDayDescription -----------------------------------------------------

func TestSetDayDescription_UpdatesOnlyMatchingDay(t *testing.T) {
	days := domain.ResizeItinerary(nil, 3)

	got := domain.SetDayDescription(days, 2, "Beach day")

	require.Len(t, got, 3)
	assert.Empty(t, got[0].Description)
	assert.Equal(t, "Beach day", got[1].Description)
	assert.Empty(t, got[2].Description)
}

func TestSetDayDescription_UnknownDayIsNoop(t *testing.T) {
	days := domain.ResizeItinerary(nil, 2)

	got := domain.SetDayDescription(days, 5, "ignored")

	assert.Equal(t, days, got)
}

// TestItinerary_EditThenShrinkScenario walks the full edit sequence:
// duration 3 → edit day 2 → shrink to 2, verifying the edited description
// survives the shrink because its day number stays within range.
func TestItinerary_EditThenShrinkScenario(t *testing.T) {
	days := domain.ResizeItinerary(nil, 3)
	require.Equal(t, []domain.ItineraryDay{{Day: 1}, {Day: 2}, {Day: 3}}, days)

	days = domain.SetDayDescription(days, 2, "Beach day")
	require.Equal(t, "Beach day", days[1].Description)

	days = domain.ResizeItinerary(days, 2)
	assert.Equal(t, []domain.ItineraryDay{{Day: 1}, {Day: 2, Description: "Beach day"}}, days)
}
