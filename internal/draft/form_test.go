package draft_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamio/backend/internal/domain"
	"github.com/roamio/backend/internal/draft"
)

// mockLister is a hand-written test double for draft.PlacesLister.
type mockLister struct {
	listPlaces func(ctx context.Context, destinationID uuid.UUID) ([]domain.Place, error)
}

func (m *mockLister) ListPlaces(ctx context.Context, destinationID uuid.UUID) ([]domain.Place, error) {
	return m.listPlaces(ctx, destinationID)
}

var _ draft.PlacesLister = (*mockLister)(nil)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func emptyLister() *mockLister {
	return &mockLister{
		listPlaces: func(_ context.Context, _ uuid.UUID) ([]domain.Place, error) {
			return []domain.Place{}, nil
		},
	}
}

// saveRecorder counts save calls and remembers the last package it saw.
type saveRecorder struct {
	mu    sync.Mutex
	calls int
	last  domain.Package
	err   error
}

func (r *saveRecorder) save(_ context.Context, pkg domain.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.last = pkg
	return r.err
}

// fillValid populates a form so that only the fields under test stand out.
func fillValid(f *draft.Form, destID uuid.UUID) {
	done := f.SelectDestination(context.Background(), destID)
	<-done
	f.SetTitle("Bali Escape")
	f.SetDescription("Seven nights of beaches and temples.")
	f.SetPrice("1299.99")
	f.SetDuration("2")
	f.SetDayDescription(1, "Arrival and beach")
	f.SetDayDescription(2, "Departure")
}

// ---- itinerary derivation --------------------------------------------------

func TestForm_SetDuration_GrowsItinerary(t *testing.T) {
	f := draft.New(emptyLister(), nil, discardLogger())

	f.SetDuration("3")

	days := f.Itinerary()
	require.Len(t, days, 3)
	assert.Equal(t, 1, days[0].Day)
	assert.Equal(t, 3, days[2].Day)
	assert.Empty(t, days[0].Description)
}

func TestForm_SetDuration_PreservesDescriptionsOnGrow(t *testing.T) {
	f := draft.New(emptyLister(), nil, discardLogger())

	f.SetDuration("2")
	f.SetDayDescription(1, "Arrival")
	f.SetDayDescription(2, "Beach day")
	f.SetDuration("4")

	days := f.Itinerary()
	require.Len(t, days, 4)
	assert.Equal(t, "Arrival", days[0].Description)
	assert.Equal(t, "Beach day", days[1].Description)
	assert.Empty(t, days[2].Description)
}

func TestForm_SetDuration_ShrinkDropsTail(t *testing.T) {
	f := draft.New(emptyLister(), nil, discardLogger())

	// Enter three days, describe the middle one, then shrink to two.
	f.SetDuration("3")
	f.SetDayDescription(2, "Beach day")
	f.SetDuration("2")

	days := f.Itinerary()
	require.Len(t, days, 2)
	// Day 2's text survives the shrink; only day 3 was dropped.
	assert.Equal(t, "Beach day", days[1].Description)
}

func TestForm_SetDuration_NonNumericLeavesItinerary(t *testing.T) {
	f := draft.New(emptyLister(), nil, discardLogger())

	f.SetDuration("3")
	f.SetDayDescription(1, "Arrival")
	f.SetDuration("banana")

	// The raw input is remembered but the day list stays as it was.
	days := f.Itinerary()
	require.Len(t, days, 3)
	assert.Equal(t, "Arrival", days[0].Description)
}

func TestForm_SetDayDescription_OnlyTouchesThatDay(t *testing.T) {
	f := draft.New(emptyLister(), nil, discardLogger())

	f.SetDuration("3")
	f.SetDayDescription(1, "Arrival")
	f.SetDayDescription(3, "Departure")
	f.SetDayDescription(2, "Beach day")

	days := f.Itinerary()
	assert.Equal(t, "Arrival", days[0].Description)
	assert.Equal(t, "Beach day", days[1].Description)
	assert.Equal(t, "Departure", days[2].Description)
}

// ---- place selection -------------------------------------------------------

func TestForm_TogglePlace_Twice(t *testing.T) {
	f := draft.New(emptyLister(), nil, discardLogger())

	a, b := uuid.New(), uuid.New()
	f.TogglePlace(a)
	f.TogglePlace(b)
	f.TogglePlace(a)

	// a was toggled twice, so only b remains.
	assert.Equal(t, []uuid.UUID{b}, f.SelectedPlaces())
}

func TestForm_SelectDestination_FetchesPlaces(t *testing.T) {
	destID := uuid.New()
	want := []domain.Place{{ID: uuid.New(), DestinationID: destID, Name: "Uluwatu Temple"}}
	lister := &mockLister{
		listPlaces: func(_ context.Context, id uuid.UUID) ([]domain.Place, error) {
			assert.Equal(t, destID, id)
			return want, nil
		},
	}
	f := draft.New(lister, nil, discardLogger())

	done := f.SelectDestination(context.Background(), destID)
	<-done

	assert.Equal(t, want, f.AvailablePlaces())
}

func TestForm_SelectDestination_StaleFetchDiscarded(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	release := make(chan struct{})

	lister := &mockLister{
		listPlaces: func(_ context.Context, id uuid.UUID) ([]domain.Place, error) {
			if id == first {
				<-release // the first fetch is slow
				return []domain.Place{{Name: "Stale Place"}}, nil
			}
			return []domain.Place{{Name: "Fresh Place"}}, nil
		},
	}
	f := draft.New(lister, nil, discardLogger())

	slow := f.SelectDestination(context.Background(), first)
	fast := f.SelectDestination(context.Background(), second)
	<-fast

	// Now let the outdated fetch finish; its result must be dropped.
	close(release)
	<-slow

	places := f.AvailablePlaces()
	require.Len(t, places, 1)
	assert.Equal(t, "Fresh Place", places[0].Name)
}

func TestForm_SelectDestination_FetchErrorKeepsPrevious(t *testing.T) {
	destID := uuid.New()
	calls := 0
	lister := &mockLister{
		listPlaces: func(_ context.Context, _ uuid.UUID) ([]domain.Place, error) {
			calls++
			if calls == 1 {
				return []domain.Place{{Name: "Kept Place"}}, nil
			}
			return nil, context.DeadlineExceeded
		},
	}
	f := draft.New(lister, nil, discardLogger())

	<-f.SelectDestination(context.Background(), destID)
	<-f.SelectDestination(context.Background(), uuid.New())

	places := f.AvailablePlaces()
	require.Len(t, places, 1)
	assert.Equal(t, "Kept Place", places[0].Name)
}

// ---- submit ----------------------------------------------------------------

func TestForm_Submit_Valid(t *testing.T) {
	rec := &saveRecorder{}
	f := draft.New(emptyLister(), rec.save, discardLogger())
	destID := uuid.New()
	fillValid(f, destID)

	err := f.Submit(context.Background())

	require.NoError(t, err)
	assert.True(t, f.Closed())
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, destID, rec.last.DestinationID)
	assert.Equal(t, 2, rec.last.Duration)
	assert.Len(t, rec.last.Itinerary, 2)
}

func TestForm_Submit_NoDestination(t *testing.T) {
	rec := &saveRecorder{}
	f := draft.New(emptyLister(), rec.save, discardLogger())
	f.SetTitle("Bali Escape")
	f.SetDuration("1")
	f.SetDayDescription(1, "Arrival")
	f.SetPrice("100")

	err := f.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Please select a destination", f.Err())
	assert.Zero(t, rec.calls) // validation failures never reach save
	assert.False(t, f.Closed())
}

func TestForm_Submit_BlankDay(t *testing.T) {
	rec := &saveRecorder{}
	f := draft.New(emptyLister(), rec.save, discardLogger())
	fillValid(f, uuid.New())
	f.SetDayDescription(2, "   ")

	err := f.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Please provide description for all days", f.Err())
	assert.Zero(t, rec.calls)
}

func TestForm_Submit_SaveErrorKeepsState(t *testing.T) {
	rec := &saveRecorder{err: context.DeadlineExceeded}
	f := draft.New(emptyLister(), rec.save, discardLogger())
	fillValid(f, uuid.New())

	err := f.Submit(context.Background())

	require.Error(t, err)
	assert.False(t, f.Closed())
	assert.NotEmpty(t, f.Err())
	// Entered data survives the failure; a retry submits the same draft.
	assert.Len(t, f.Itinerary(), 2)

	rec.err = nil
	require.NoError(t, f.Submit(context.Background()))
	assert.True(t, f.Closed())
	assert.Empty(t, f.Err())
}

func TestForm_Submit_SecondWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	rec := &saveRecorder{}

	slowSave := func(ctx context.Context, pkg domain.Package) error {
		close(started)
		<-release
		return rec.save(ctx, pkg)
	}
	f := draft.New(emptyLister(), slowSave, discardLogger())
	fillValid(f, uuid.New())

	firstErr := make(chan error, 1)
	go func() { firstErr <- f.Submit(context.Background()) }()
	<-started

	err := f.Submit(context.Background())
	assert.ErrorIs(t, err, draft.ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-firstErr)
	assert.Equal(t, 1, rec.calls) // exactly one save despite two submits
}

func TestForm_NewEdit_CarriesRatingAndID(t *testing.T) {
	existing := domain.Package{
		ID:            uuid.New(),
		DestinationID: uuid.New(),
		Title:         "Bali Escape",
		Description:   "Seven nights.",
		Duration:      1,
		Price:         900,
		Rating:        4.5,
		Itinerary:     []domain.ItineraryDay{{Day: 1, Description: "Arrival"}},
	}
	rec := &saveRecorder{}
	f := draft.NewEdit(existing, emptyLister(), rec.save, discardLogger())

	f.SetTitle("Bali Escape Deluxe")
	require.NoError(t, f.Submit(context.Background()))

	assert.Equal(t, existing.ID, rec.last.ID)
	assert.Equal(t, 4.5, rec.last.Rating)
	assert.Equal(t, "Bali Escape Deluxe", rec.last.Title)
}

func TestForm_NewEdit_ItineraryMatchesDuration(t *testing.T) {
	// A stored package whose itinerary is shorter than its duration still
	// renders a full day list in the form.
	existing := domain.Package{
		ID:            uuid.New(),
		DestinationID: uuid.New(),
		Duration:      3,
		Itinerary:     []domain.ItineraryDay{{Day: 1, Description: "Arrival"}},
	}
	f := draft.NewEdit(existing, emptyLister(), nil, discardLogger())

	days := f.Itinerary()
	require.Len(t, days, 3)
	assert.Equal(t, "Arrival", days[0].Description)
	assert.Empty(t, days[1].Description)
}
