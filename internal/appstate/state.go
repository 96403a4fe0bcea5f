package appstate

import (
	"time"

	"nutritrack/internal/api"
)

// Cache domains for staleness tracking.
const (
	DomainMeals = "meals"
	DomainFoods = "foods"
)

// Well-known loading/error keys. The namespace is open (screens may use any
// key), but these are the ones the built-in screens share.
const (
	KeyMeals    = "refeicoes"
	KeyFoods    = "alimentos"
	KeyDeleting = "deletando"
	KeyCreating = "criando"
	KeyUpdating = "atualizando"
)

// State is the root application state. It is treated as immutable: every
// transition produces a new snapshot, so a State handed out by the store is
// safe to read without synchronization.
type State struct {
	// CurrentMeals is the meal list for the date currently displayed. It is
	// always a projection of Cache.MealsByDate[CurrentDate], never a separate
	// source of truth.
	CurrentMeals []api.Meal
	CurrentDate  string

	// Foods is the most recent catalog fetch (possibly filtered).
	Foods []api.Food

	// Loading maps operation key to a loading marker. A non-empty value means
	// the operation is in flight; the value may carry an identifier (e.g. the
	// id of the meal being deleted).
	Loading map[string]string

	// Errors maps screen/operation key to a message. Absence means no error.
	Errors map[string]string

	Cache Cache
}

// Cache holds everything fetched in this session, keyed for reuse. It is
// memory-only and lost when the process exits.
type Cache struct {
	// MealsByDate holds every date ever successfully fetched or mutated.
	MealsByDate map[string][]api.Meal

	// Foods is the last unfiltered catalog fetch. Search results are never
	// cached.
	Foods []api.Food

	// LastFetch stamps the last successful fetch per domain.
	LastFetch map[string]time.Time
}

func initialState() State {
	return State{
		Loading: map[string]string{},
		Errors:  map[string]string{},
		Cache: Cache{
			MealsByDate: map[string][]api.Meal{},
			LastFetch:   map[string]time.Time{},
		},
	}
}
