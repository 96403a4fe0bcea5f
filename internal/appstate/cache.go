package appstate

import (
	"time"

	"nutritrack/internal/api"
)

// DefaultMaxAge is the staleness window applied when callers have no
// configured TTL.
const DefaultMaxAge = 5 * time.Minute

// IsCacheValid reports whether the last fetch into domain is younger than
// maxAge. Screens consult this before issuing a network request.
func (s *Store) IsCacheValid(domain string, maxAge time.Duration) bool {
	s.mu.Lock()
	lastFetch, ok := s.state.Cache.LastFetch[domain]
	now := s.now()
	s.mu.Unlock()

	if !ok {
		return false
	}
	return now.Sub(lastFetch) < maxAge
}

// CachedMeals returns the cached bucket for date. ok=false means the date was
// never fetched, as opposed to an empty bucket, which is a valid cached
// "no meals that day" result.
func (s *Store) CachedMeals(date string) ([]api.Meal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meals, ok := s.state.Cache.MealsByDate[date]
	return meals, ok
}

// CachedFoods returns the cached unfiltered catalog, possibly empty.
func (s *Store) CachedFoods() []api.Food {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Cache.Foods
}
