package appstate

import (
	"time"

	"nutritrack/internal/api"
)

// reduce is the pure transition function. It never mutates the previous
// state: maps and buckets that change are rebuilt, so earlier snapshots stay
// valid. Every command is total over its inputs; there is nothing to fail.
func reduce(state State, cmd Command, now time.Time) State {
	switch c := cmd.(type) {
	case SetLoadingCmd:
		loading := cloneMap(state.Loading)
		if c.Value == "" {
			delete(loading, c.Key)
		} else {
			loading[c.Key] = c.Value
		}
		state.Loading = loading

	case SetMealsCmd:
		buckets := cloneBuckets(state.Cache.MealsByDate)
		buckets[c.Date] = c.Meals

		lastFetch := cloneFetch(state.Cache.LastFetch)
		lastFetch[DomainMeals] = now

		state.CurrentMeals = c.Meals
		state.CurrentDate = c.Date
		state.Cache.MealsByDate = buckets
		state.Cache.LastFetch = lastFetch

	case SetFoodsCmd:
		lastFetch := cloneFetch(state.Cache.LastFetch)
		lastFetch[DomainFoods] = now

		state.Foods = c.Foods
		state.Cache.Foods = c.Foods
		state.Cache.LastFetch = lastFetch

	case SetFoodSearchCmd:
		state.Foods = c.Foods

	case AddMealCmd:
		buckets := cloneBuckets(state.Cache.MealsByDate)
		bucket := make([]api.Meal, 0, len(buckets[c.Date])+1)
		bucket = append(bucket, buckets[c.Date]...)
		bucket = append(bucket, c.Meal)
		buckets[c.Date] = bucket

		// Only show the meal when its date is the one being viewed.
		if state.CurrentDate == c.Date {
			state.CurrentMeals = bucket
		}
		state.Cache.MealsByDate = buckets

	case RemoveMealCmd:
		state.CurrentMeals = withoutMeal(state.CurrentMeals, c.ID)

		// The owning date is not tracked post-fetch, so every bucket is
		// scanned. A given id should only live in one bucket; the sweep is
		// defensive.
		buckets := make(map[string][]api.Meal, len(state.Cache.MealsByDate))
		for date, meals := range state.Cache.MealsByDate {
			buckets[date] = withoutMeal(meals, c.ID)
		}
		state.Cache.MealsByDate = buckets

	case SetErrorCmd:
		errors := cloneMap(state.Errors)
		errors[c.Key] = c.Message
		state.Errors = errors

	case ClearErrorCmd:
		errors := cloneMap(state.Errors)
		delete(errors, c.Key)
		state.Errors = errors
	}

	return state
}

func withoutMeal(meals []api.Meal, id int64) []api.Meal {
	filtered := make([]api.Meal, 0, len(meals))
	for _, m := range meals {
		if m.ID != id {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

func cloneMap(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneBuckets(src map[string][]api.Meal) map[string][]api.Meal {
	dst := make(map[string][]api.Meal, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneFetch(src map[string]time.Time) map[string]time.Time {
	dst := make(map[string]time.Time, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
