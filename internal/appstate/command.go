package appstate

import "nutritrack/internal/api"

// Command is the tagged union of state transitions. One variant exists per
// store operation; Dispatch applies them in FIFO order.
type Command interface {
	isCommand()
}

// SetLoadingCmd sets Loading[Key] = Value. An empty Value clears the flag.
type SetLoadingCmd struct {
	Key   string
	Value string
}

// SetMealsCmd replaces the current list, points CurrentDate at Date and
// writes the date bucket into the cache.
type SetMealsCmd struct {
	Date  string
	Meals []api.Meal
}

// SetFoodsCmd replaces the food catalog and its cache copy.
type SetFoodsCmd struct {
	Foods []api.Food
}

// SetFoodSearchCmd replaces the visible catalog with search results. The
// cache copy and fetch stamp are untouched; filtered results are never reused.
type SetFoodSearchCmd struct {
	Foods []api.Food
}

// AddMealCmd appends Meal to the Date bucket. The caller must have already
// persisted the meal remotely; this is a local apply only.
type AddMealCmd struct {
	Date string
	Meal api.Meal
}

// RemoveMealCmd removes the meal from the current list and from every date
// bucket. Unknown ids are a no-op.
type RemoveMealCmd struct {
	ID int64
}

// SetErrorCmd records a message under Key.
type SetErrorCmd struct {
	Key     string
	Message string
}

// ClearErrorCmd deletes the entry under Key.
type ClearErrorCmd struct {
	Key string
}

func (SetLoadingCmd) isCommand() {}
func (SetMealsCmd) isCommand() {}
func (SetFoodsCmd) isCommand() {}
func (SetFoodSearchCmd) isCommand() {}
func (AddMealCmd) isCommand() {}
func (RemoveMealCmd) isCommand() {}
func (SetErrorCmd) isCommand() {}
func (ClearErrorCmd) isCommand() {}
