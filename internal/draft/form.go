// Package draft implements the package form controller: the editable state of
// one travel package being created or edited, with its derived day-by-day
// itinerary, destination-scoped place selection, and submit validation.
//
// The form owns its state exclusively. It talks to the outside world through
// two injected dependencies: a PlacesLister for the place selector and a
// SaveFunc for persistence. The admin CLI wires these to the HTTP client;
// tests wire them to mocks.
package draft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/roamio/backend/internal/domain"
)

// Validation messages shown inline at the form. They match the API's own
// wording so a draft rejected locally and a draft rejected by the server read
// the same.
const (
	MsgSelectDestination = "Please select a destination"
	MsgDescribeAllDays   = "Please provide description for all days"
)

// ErrSubmitInFlight is returned by Submit when a previous submit has not
// finished yet. Double-submits are a user-interface reality; only one save
// call may ever result.
var ErrSubmitInFlight = errors.New("draft: submit already in progress")

// PlacesLister fetches the places selectable for a destination.
// Satisfied by service.CatalogService and client.Client.
type PlacesLister interface {
	ListPlaces(ctx context.Context, destinationID uuid.UUID) ([]domain.Place, error)
}

// SaveFunc persists a finished draft. Failure messages are shown verbatim at
// the form, so implementations should return user-readable errors.
type SaveFunc func(ctx context.Context, pkg domain.Package) error

// Form is the package form controller. All methods are safe for concurrent
// use; the asynchronous places fetch is the only operation that outlives a
// method call.
type Form struct {
	lister PlacesLister
	save   SaveFunc
	log    *slog.Logger

	mu            sync.Mutex
	original      *domain.Package // set when editing an existing package
	destinationID uuid.UUID
	title         string
	description   string
	duration      string // string-backed numeric input
	price         string // string-backed numeric input
	mainImageURL  string
	itinerary     []domain.ItineraryDay
	available     []domain.Place
	selected      []uuid.UUID
	submitting    bool
	closed        bool
	errMsg        string

	// fetchGen stamps each places fetch; responses whose stamp no longer
	// matches are discarded, so a slow fetch for a previously selected
	// destination can never overwrite the current one's places.
	fetchGen uint64
}

// New returns an empty form for creating a package.
func New(lister PlacesLister, save SaveFunc, log *slog.Logger) *Form {
	return &Form{lister: lister, save: save, log: log, itinerary: []domain.ItineraryDay{}}
}

// NewEdit returns a form pre-filled from an existing package. The package's
// rating is remembered and carried through Submit unchanged.
func NewEdit(pkg domain.Package, lister PlacesLister, save SaveFunc, log *slog.Logger) *Form {
	f := New(lister, save, log)
	f.original = &pkg
	f.destinationID = pkg.DestinationID
	f.title = pkg.Title
	f.description = pkg.Description
	f.duration = strconv.Itoa(pkg.Duration)
	f.price = strconv.FormatFloat(pkg.Price, 'f', -1, 64)
	f.mainImageURL = pkg.MainImageURL
	f.itinerary = domain.ResizeItinerary(pkg.Itinerary, pkg.Duration)
	f.selected = append([]uuid.UUID(nil), pkg.Places...)
	return f
}

// SetTitle, SetDescription, and SetMainImageURL are plain input bindings.

func (f *Form) SetTitle(s string) { f.mu.Lock(); f.title = s; f.mu.Unlock() }

func (f *Form) SetDescription(s string) { f.mu.Lock(); f.description = s; f.mu.Unlock() }

func (f *Form) SetMainImageURL(s string) { f.mu.Lock(); f.mainImageURL = s; f.mu.Unlock() }

// SetPrice stores the raw price input. It is parsed at submit time.
func (f *Form) SetPrice(s string) { f.mu.Lock(); f.price = s; f.mu.Unlock() }

// SetDuration stores the raw duration input and synchronously re-derives the
// itinerary: the displayed day list never lags the field. Inputs that do not
// parse as a whole number leave the itinerary untouched.
func (f *Form) SetDuration(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.duration = s
	days, err := strconv.Atoi(s)
	if err != nil {
		return
	}
	f.itinerary = domain.ResizeItinerary(f.itinerary, days)
}

// SetDayDescription updates exactly the itinerary entry whose day number
// matches; all other entries are unchanged and order is preserved.
func (f *Form) SetDayDescription(day int, desc string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itinerary = domain.SetDayDescription(f.itinerary, day, desc)
}

// TogglePlace adds the place id to the selection if absent, removes it if
// present. Toggling twice restores the original selection.
func (f *Form) TogglePlace(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, sel := range f.selected {
		if sel == id {
			f.selected = append(f.selected[:i], f.selected[i+1:]...)
			return
		}
	}
	f.selected = append(f.selected, id)
}

// SelectDestination records the chosen destination and kicks off an
// asynchronous fetch of its places. The returned channel closes when the
// fetch has been applied or discarded, for callers that need to wait.
//
// A fetch failure is logged and leaves the available list unchanged — the
// selector degrades to its previous contents rather than erroring the form.
func (f *Form) SelectDestination(ctx context.Context, id uuid.UUID) <-chan struct{} {
	f.mu.Lock()
	f.destinationID = id
	f.fetchGen++
	gen := f.fetchGen
	f.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		places, err := f.lister.ListPlaces(ctx, id)
		f.applyPlaces(gen, places, err)
	}()
	return done
}

// applyPlaces installs a fetch result unless a newer fetch has started since.
func (f *Form) applyPlaces(gen uint64, places []domain.Place, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.fetchGen {
		return // stale response for a destination no longer selected
	}
	if err != nil {
		f.log.Error("fetching places failed", "error", err)
		return
	}
	f.available = places
}

// Submit validates the draft and hands it to the save callback. On success
// the form closes; on failure the error message is surfaced and all entered
// data stays intact. Exactly one save call happens per successful submit.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	f.submitting = true
	f.errMsg = ""

	pkg, err := f.buildLocked()
	if err != nil {
		f.errMsg = err.Error()
		f.submitting = false
		f.mu.Unlock()
		return err
	}
	f.mu.Unlock()

	err = f.save(ctx, pkg)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.errMsg = err.Error()
		return err
	}
	f.closed = true
	return nil
}

// buildLocked validates and assembles the package record. Caller holds f.mu.
func (f *Form) buildLocked() (domain.Package, error) {
	if f.destinationID == uuid.Nil {
		return domain.Package{}, errors.New(MsgSelectDestination)
	}
	for _, day := range f.itinerary {
		if isBlank(day.Description) {
			return domain.Package{}, errors.New(MsgDescribeAllDays)
		}
	}

	duration, err := strconv.Atoi(f.duration)
	if err != nil {
		return domain.Package{}, fmt.Errorf("duration must be a whole number of days")
	}
	price, err := strconv.ParseFloat(f.price, 64)
	if err != nil {
		return domain.Package{}, fmt.Errorf("price must be a number")
	}

	pkg := domain.Package{
		DestinationID: f.destinationID,
		Title:         f.title,
		Description:   f.description,
		Duration:      duration,
		Price:         price,
		MainImageURL:  f.mainImageURL,
		Places:        append([]uuid.UUID(nil), f.selected...),
		Itinerary:     append([]domain.ItineraryDay(nil), f.itinerary...),
	}
	if f.original != nil {
		pkg.ID = f.original.ID
		pkg.Rating = f.original.Rating
	}
	return pkg, nil
}

// ---- accessors -------------------------------------------------------------

// Itinerary returns a copy of the current day list.
func (f *Form) Itinerary() []domain.ItineraryDay {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ItineraryDay(nil), f.itinerary...)
}

// AvailablePlaces returns the places fetched for the selected destination.
func (f *Form) AvailablePlaces() []domain.Place {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Place(nil), f.available...)
}

// SelectedPlaces returns the selected place ids in selection order.
func (f *Form) SelectedPlaces() []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.selected...)
}

// Err returns the message of the last failed submit, or "".
func (f *Form) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Closed reports whether a submit has succeeded.
func (f *Form) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// isBlank reports whether s is empty or whitespace-only.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
