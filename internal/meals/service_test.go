package meals

import (
	"context"
	"fmt"
	"testing"
	"time"

	"nutritrack/internal/api"
	"nutritrack/internal/appstate"
)

type mockAPI struct {
	listCalls   int
	listFn      func(date string) ([]api.Meal, error)
	createFn    func(req api.CreateMealRequest) (*api.Meal, error)
	updateFn    func(id int64, req api.CreateMealRequest) (*api.Meal, error)
	deleteFn    func(id int64) error
	deleteCalls []int64
}

func (m *mockAPI) ListMeals(_ context.Context, date string) ([]api.Meal, error) {
	m.listCalls++
	if m.listFn != nil {
		return m.listFn(date)
	}
	return nil, nil
}

func (m *mockAPI) CreateMeal(_ context.Context, req api.CreateMealRequest) (*api.Meal, error) {
	if m.createFn != nil {
		return m.createFn(req)
	}
	return &api.Meal{ID: 1, Name: req.Name}, nil
}

func (m *mockAPI) UpdateMeal(_ context.Context, id int64, req api.CreateMealRequest) (*api.Meal, error) {
	if m.updateFn != nil {
		return m.updateFn(id, req)
	}
	return &api.Meal{ID: id, Name: req.Name}, nil
}

func (m *mockAPI) DeleteMeal(_ context.Context, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *mockAPI, *appstate.Store) {
	t.Helper()

	mock := &mockAPI{}
	store := appstate.NewStore()
	svc := NewService(mock, store, appstate.DefaultMaxAge)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc, mock, store
}

func TestLoadMealsFetchesAndCaches(t *testing.T) {
	svc, mock, store := newTestService(t)
	mock.listFn = func(date string) ([]api.Meal, error) {
		if date != "2025-03-10" {
			t.Fatalf("requested date %q", date)
		}
		return []api.Meal{{ID: 1, Name: "Café"}}, nil
	}

	meals, err := svc.LoadMeals(context.Background(), "", false)
	if err != nil {
		t.Fatalf("LoadMeals: %v", err)
	}
	if len(meals) != 1 {
		t.Fatalf("got %d meals", len(meals))
	}

	st := store.Snapshot()
	if st.CurrentDate != "2025-03-10" {
		t.Fatalf("current date = %q", st.CurrentDate)
	}
	if _, ok := store.CachedMeals("2025-03-10"); !ok {
		t.Fatal("fetch result not cached")
	}
	if _, ok := st.Loading[appstate.KeyMeals]; ok {
		t.Fatal("loading flag not cleared")
	}
}

func TestLoadMealsServedFromCache(t *testing.T) {
	svc, mock, _ := newTestService(t)
	mock.listFn = func(string) ([]api.Meal, error) {
		return []api.Meal{{ID: 1, Name: "Café"}}, nil
	}

	if _, err := svc.LoadMeals(context.Background(), "2025-03-10", false); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := svc.LoadMeals(context.Background(), "2025-03-10", false); err != nil {
		t.Fatalf("second load: %v", err)
	}

	if mock.listCalls != 1 {
		t.Fatalf("network calls = %d, want 1", mock.listCalls)
	}
}

func TestLoadMealsForceBypassesCache(t *testing.T) {
	svc, mock, _ := newTestService(t)
	mock.listFn = func(string) ([]api.Meal, error) { return nil, nil }

	svc.LoadMeals(context.Background(), "2025-03-10", false)
	svc.LoadMeals(context.Background(), "2025-03-10", true)

	if mock.listCalls != 2 {
		t.Fatalf("network calls = %d, want 2", mock.listCalls)
	}
}

func TestLoadMealsUnknownDateFetchesEvenWhenFresh(t *testing.T) {
	svc, mock, _ := newTestService(t)
	mock.listFn = func(string) ([]api.Meal, error) { return nil, nil }

	svc.LoadMeals(context.Background(), "2025-03-10", false)
	svc.LoadMeals(context.Background(), "2025-03-11", false)

	// The second date has no bucket, so freshness alone is not enough.
	if mock.listCalls != 2 {
		t.Fatalf("network calls = %d, want 2", mock.listCalls)
	}
}

func TestLoadMealsErrorRecorded(t *testing.T) {
	svc, mock, store := newTestService(t)
	mock.listFn = func(string) ([]api.Meal, error) {
		return nil, fmt.Errorf("erro_ao_carregar_refeicoes")
	}

	if _, err := svc.LoadMeals(context.Background(), "2025-03-10", false); err == nil {
		t.Fatal("expected error")
	}

	st := store.Snapshot()
	if st.Errors[appstate.KeyMeals] == "" {
		t.Fatal("error not recorded in store")
	}
	if _, ok := st.Loading[appstate.KeyMeals]; ok {
		t.Fatal("loading flag left set after failure")
	}
	if _, ok := store.CachedMeals("2025-03-10"); ok {
		t.Fatal("failed fetch produced a cache bucket")
	}
}

func TestCreateMealAppliesToStore(t *testing.T) {
	svc, mock, store := newTestService(t)
	mock.createFn = func(req api.CreateMealRequest) (*api.Meal, error) {
		if len(req.Items) != 1 || req.Items[0].FoodID != rice.ID {
			t.Fatalf("unexpected payload: %+v", req)
		}
		return &api.Meal{
			ID:        7,
			Name:      req.Name,
			CreatedAt: time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC),
			TotalKcal: 192,
		}, nil
	}

	d := NewDraft("Almoço", "")
	d.AddItem(rice, 150)

	meal, err := svc.CreateMeal(context.Background(), d)
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if meal.ID != 7 {
		t.Fatalf("meal id = %d", meal.ID)
	}

	bucket, ok := store.CachedMeals("2025-03-10")
	if !ok || len(bucket) != 1 || bucket[0].ID != 7 {
		t.Fatalf("meal not applied to its date bucket: ok=%v %+v", ok, bucket)
	}
}

func TestCreateMealRejectsEmptyDraft(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.CreateMeal(context.Background(), NewDraft("Almoço", "")); err == nil {
		t.Fatal("empty draft accepted")
	}
	if _, err := svc.CreateMeal(context.Background(), NewDraft("", "")); err == nil {
		t.Fatal("unnamed draft accepted")
	}
}

func TestUpdateMealDoesNotPatchCache(t *testing.T) {
	svc, mock, store := newTestService(t)
	store.SetMeals("2025-03-10", []api.Meal{{ID: 5, Name: "Café"}})
	mock.updateFn = func(id int64, req api.CreateMealRequest) (*api.Meal, error) {
		return &api.Meal{ID: id, Name: req.Name, TotalKcal: 300}, nil
	}

	d := NewDraft("Café reforçado", "")
	d.AddItem(rice, 200)

	meal, err := svc.UpdateMeal(context.Background(), 5, d)
	if err != nil {
		t.Fatalf("UpdateMeal: %v", err)
	}
	if meal.Name != "Café reforçado" {
		t.Fatalf("meal name = %q", meal.Name)
	}

	// The cached bucket keeps the stale entry until the caller refetches.
	bucket, _ := store.CachedMeals("2025-03-10")
	if len(bucket) != 1 || bucket[0].Name != "Café" {
		t.Fatalf("cache patched in place: %+v", bucket)
	}
}

func TestDeleteMealRemoteFirst(t *testing.T) {
	svc, mock, store := newTestService(t)
	store.SetMeals("2025-03-10", []api.Meal{{ID: 5, Name: "Café"}})

	var markerDuringCall string
	mock.deleteFn = func(id int64) error {
		markerDuringCall = store.Snapshot().Loading[appstate.KeyDeleting]
		return nil
	}

	if err := svc.DeleteMeal(context.Background(), 5); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}

	if markerDuringCall != "5" {
		t.Fatalf("loading marker during delete = %q, want 5", markerDuringCall)
	}
	if len(mock.deleteCalls) != 1 || mock.deleteCalls[0] != 5 {
		t.Fatalf("delete calls = %v", mock.deleteCalls)
	}
	if bucket, _ := store.CachedMeals("2025-03-10"); len(bucket) != 0 {
		t.Fatalf("meal survived delete: %+v", bucket)
	}
}

func TestDeleteMealKeepsLocalOnFailure(t *testing.T) {
	svc, mock, store := newTestService(t)
	store.SetMeals("2025-03-10", []api.Meal{{ID: 5, Name: "Café"}})
	mock.deleteFn = func(int64) error { return fmt.Errorf("status 500") }

	if err := svc.DeleteMeal(context.Background(), 5); err == nil {
		t.Fatal("expected error")
	}

	if bucket, _ := store.CachedMeals("2025-03-10"); len(bucket) != 1 {
		t.Fatal("meal removed locally despite remote failure")
	}
	if store.Snapshot().Errors[appstate.KeyDeleting] == "" {
		t.Fatal("delete error not recorded")
	}
}
