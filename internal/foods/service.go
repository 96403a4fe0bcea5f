package foods

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"nutritrack/internal/api"
	"nutritrack/internal/appstate"
)

// MinSearchLen is the shortest accepted search term. Shorter terms would
// match most of the catalog and are rejected client-side.
const MinSearchLen = 2

type foodsAPI interface {
	ListFoods(ctx context.Context, search string) ([]api.Food, error)
}

type Service struct {
	api    foodsAPI
	store  *appstate.Store
	maxAge time.Duration
}

func NewService(client foodsAPI, store *appstate.Store, maxAge time.Duration) *Service {
	if maxAge <= 0 {
		maxAge = appstate.DefaultMaxAge
	}
	return &Service{api: client, store: store, maxAge: maxAge}
}

// LoadCatalog returns the food catalog. Unfiltered calls serve from the cache
// when it holds a fresh catalog; force always refetches. A non-empty search
// term always goes to the network and the results never enter the cache.
func (s *Service) LoadCatalog(ctx context.Context, search string, force bool) ([]api.Food, error) {
	if search != "" {
		return s.search(ctx, search)
	}

	if !force && s.store.IsCacheValid(appstate.DomainFoods, s.maxAge) {
		if cached := s.store.CachedFoods(); len(cached) > 0 {
			s.store.SetFoods(cached)
			return cached, nil
		}
	}

	s.store.SetLoading(appstate.KeyFoods, "1")
	defer s.store.SetLoading(appstate.KeyFoods, "")

	foods, err := s.api.ListFoods(ctx, "")
	if err != nil {
		s.store.SetError(appstate.KeyFoods, err.Error())
		return nil, fmt.Errorf("load foods: %w", err)
	}

	s.store.ClearError(appstate.KeyFoods)
	s.store.SetFoods(foods)
	return foods, nil
}

func (s *Service) search(ctx context.Context, term string) ([]api.Food, error) {
	if utf8.RuneCountInString(term) < MinSearchLen {
		return nil, fmt.Errorf("busca_minima_%d_caracteres", MinSearchLen)
	}

	s.store.SetLoading(appstate.KeyFoods, "1")
	defer s.store.SetLoading(appstate.KeyFoods, "")

	foods, err := s.api.ListFoods(ctx, term)
	if err != nil {
		s.store.SetError(appstate.KeyFoods, err.Error())
		return nil, fmt.Errorf("search foods: %w", err)
	}

	s.store.ClearError(appstate.KeyFoods)
	s.store.Dispatch(appstate.SetFoodSearchCmd{Foods: foods})
	return foods, nil
}
