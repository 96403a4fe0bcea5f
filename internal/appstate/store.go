package appstate

import (
	"sync"
	"time"

	"nutritrack/internal/api"
)

// Store is the single authoritative holder of application state. All changes
// go through Dispatch, which serializes transitions (single writer, FIFO):
// each transition reads the previous snapshot and installs the next one
// atomically, so interleaved local applies never lose updates.
//
// The store itself never fails; errors produced by callers are recorded via
// SetError and the store acts as a passive ledger.
type Store struct {
	mu    sync.Mutex
	state State
	subs  []func(State)
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		state: initialState(),
		now:   time.Now,
	}
}

// Snapshot returns the current state. Snapshots are immutable (reducers
// rebuild what they change), so the returned value is safe to keep and read.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to run after every dispatch with the new snapshot.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Dispatch applies cmd and notifies subscribers.
func (s *Store) Dispatch(cmd Command) {
	s.mu.Lock()
	s.state = reduce(s.state, cmd, s.now())
	next := s.state
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// MARK: - Named operations

// SetLoading sets a loading marker. An empty value clears the flag; a
// non-empty value may carry an identifier (e.g. the meal id being deleted).
func (s *Store) SetLoading(key, value string) {
	s.Dispatch(SetLoadingCmd{Key: key, Value: value})
}

// SetMeals installs the meal list for date as the current view and caches it.
func (s *Store) SetMeals(date string, meals []api.Meal) {
	s.Dispatch(SetMealsCmd{Date: date, Meals: meals})
}

// SetFoods installs the food catalog and caches it.
func (s *Store) SetFoods(foods []api.Food) {
	s.Dispatch(SetFoodsCmd{Foods: foods})
}

// AddMeal appends a meal to the bucket for date. The caller is responsible
// for having already persisted the meal remotely.
func (s *Store) AddMeal(meal api.Meal, date string) {
	s.Dispatch(AddMealCmd{Date: date, Meal: meal})
}

// RemoveMeal removes a meal by id from the current list and all buckets.
// Unknown ids are a no-op, not an error.
func (s *Store) RemoveMeal(id int64) {
	s.Dispatch(RemoveMealCmd{ID: id})
}

func (s *Store) SetError(key, message string) {
	s.Dispatch(SetErrorCmd{Key: key, Message: message})
}

func (s *Store) ClearError(key string) {
	s.Dispatch(ClearErrorCmd{Key: key})
}
