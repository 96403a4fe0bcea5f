package meals

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"nutritrack/internal/api"
	"nutritrack/internal/appstate"
)

const dateLayout = "2006-01-02"

// mealsAPI is the slice of the backend client this service uses.
type mealsAPI interface {
	ListMeals(ctx context.Context, date string) ([]api.Meal, error)
	CreateMeal(ctx context.Context, req api.CreateMealRequest) (*api.Meal, error)
	UpdateMeal(ctx context.Context, id int64, req api.CreateMealRequest) (*api.Meal, error)
	DeleteMeal(ctx context.Context, id int64) error
}

type Service struct {
	api    mealsAPI
	store  *appstate.Store
	maxAge time.Duration
	now    func() time.Time
}

func NewService(client mealsAPI, store *appstate.Store, maxAge time.Duration) *Service {
	if maxAge <= 0 {
		maxAge = appstate.DefaultMaxAge
	}
	return &Service{
		api:    client,
		store:  store,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// LoadMeals returns the meal list for date, serving from the cache when the
// date's bucket exists and the meals domain is within its staleness window.
// force always goes to the network. Either way the store ends up with date as
// the current view.
func (s *Service) LoadMeals(ctx context.Context, date string, force bool) ([]api.Meal, error) {
	if date == "" {
		date = s.now().Format(dateLayout)
	}

	if !force && s.store.IsCacheValid(appstate.DomainMeals, s.maxAge) {
		if cached, ok := s.store.CachedMeals(date); ok {
			// Same transition as a fetch; the hit re-stamps the domain.
			s.store.SetMeals(date, cached)
			return cached, nil
		}
	}

	s.store.SetLoading(appstate.KeyMeals, "1")
	defer s.store.SetLoading(appstate.KeyMeals, "")

	meals, err := s.api.ListMeals(ctx, date)
	if err != nil {
		s.store.SetError(appstate.KeyMeals, err.Error())
		return nil, fmt.Errorf("load meals: %w", err)
	}

	s.store.ClearError(appstate.KeyMeals)
	s.store.SetMeals(date, meals)
	return meals, nil
}

// CreateMeal submits the draft and applies the persisted meal to the bucket
// of its creation date.
func (s *Service) CreateMeal(ctx context.Context, draft *Draft) (*api.Meal, error) {
	if draft.Name == "" {
		return nil, fmt.Errorf("nome_obrigatorio")
	}
	if len(draft.items) == 0 {
		return nil, fmt.Errorf("refeicao_sem_itens")
	}

	s.store.SetLoading(appstate.KeyCreating, "1")
	defer s.store.SetLoading(appstate.KeyCreating, "")

	meal, err := s.api.CreateMeal(ctx, draft.request())
	if err != nil {
		s.store.SetError(appstate.KeyCreating, err.Error())
		return nil, fmt.Errorf("create meal: %w", err)
	}

	date := s.now().Format(dateLayout)
	if !meal.CreatedAt.IsZero() {
		date = meal.CreatedAt.Format(dateLayout)
	}

	s.store.ClearError(appstate.KeyCreating)
	s.store.AddMeal(*meal, date)
	return meal, nil
}

// UpdateMeal replaces the meal's contents remotely. The cache is not patched
// in place; callers refetch the affected date with force to resync.
func (s *Service) UpdateMeal(ctx context.Context, id int64, draft *Draft) (*api.Meal, error) {
	if len(draft.items) == 0 {
		return nil, fmt.Errorf("refeicao_sem_itens")
	}

	s.store.SetLoading(appstate.KeyUpdating, strconv.FormatInt(id, 10))
	defer s.store.SetLoading(appstate.KeyUpdating, "")

	meal, err := s.api.UpdateMeal(ctx, id, draft.request())
	if err != nil {
		s.store.SetError(appstate.KeyUpdating, err.Error())
		return nil, fmt.Errorf("update meal: %w", err)
	}

	s.store.ClearError(appstate.KeyUpdating)
	return meal, nil
}

// DeleteMeal removes the meal remotely, then locally. The loading marker
// carries the id so screens can spin only the affected row.
func (s *Service) DeleteMeal(ctx context.Context, id int64) error {
	s.store.SetLoading(appstate.KeyDeleting, strconv.FormatInt(id, 10))
	defer s.store.SetLoading(appstate.KeyDeleting, "")

	if err := s.api.DeleteMeal(ctx, id); err != nil {
		s.store.SetError(appstate.KeyDeleting, err.Error())
		return fmt.Errorf("delete meal: %w", err)
	}

	s.store.ClearError(appstate.KeyDeleting)
	s.store.RemoveMeal(id)
	return nil
}
