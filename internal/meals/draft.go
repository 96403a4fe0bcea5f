package meals

import (
	"fmt"

	"github.com/google/uuid"

	"nutritrack/internal/api"
)

// DraftItem is one line of a meal under construction. Totals are computed
// locally from the catalog's per-100g values; on submit only the food id and
// quantity are sent and the backend recomputes.
type DraftItem struct {
	ID        string
	FoodID    int64
	FoodName  string
	QuantityG float64

	Kcal     float64
	CarbsG   float64
	ProteinG float64
	FatG     float64
}

// Draft accumulates items before a meal is submitted. Not safe for concurrent
// use; a draft belongs to one screen.
type Draft struct {
	Name        string
	Description string
	items       []DraftItem
}

func NewDraft(name, description string) *Draft {
	return &Draft{Name: name, Description: description}
}

// AddItem appends a food with the given quantity in grams. The same food may
// appear only once per draft; adjust the quantity instead of adding twice.
func (d *Draft) AddItem(food api.Food, quantityG float64) (*DraftItem, error) {
	if quantityG <= 0 {
		return nil, fmt.Errorf("quantidade_invalida")
	}
	for _, it := range d.items {
		if it.FoodID == food.ID {
			return nil, fmt.Errorf("alimento_ja_adicionado")
		}
	}

	factor := quantityG / 100
	item := DraftItem{
		ID:        uuid.New().String(),
		FoodID:    food.ID,
		FoodName:  food.Name,
		QuantityG: quantityG,
		Kcal:      food.EnergyKcal * factor,
		CarbsG:    food.CarbsG * factor,
		ProteinG:  food.ProteinG * factor,
		FatG:      food.FatG * factor,
	}
	d.items = append(d.items, item)
	return &item, nil
}

// RemoveItem drops the item with the given local id. Unknown ids are a no-op.
func (d *Draft) RemoveItem(id string) {
	filtered := d.items[:0]
	for _, it := range d.items {
		if it.ID != id {
			filtered = append(filtered, it)
		}
	}
	d.items = filtered
}

func (d *Draft) Items() []DraftItem {
	out := make([]DraftItem, len(d.items))
	copy(out, d.items)
	return out
}

// Totals sums the locally computed macros. These are previews; the persisted
// meal carries the backend's own totals.
func (d *Draft) Totals() (kcal, carbs, protein, fat float64) {
	for _, it := range d.items {
		kcal += it.Kcal
		carbs += it.CarbsG
		protein += it.ProteinG
		fat += it.FatG
	}
	return
}

// request builds the submit payload, stripping everything computed locally.
func (d *Draft) request() api.CreateMealRequest {
	items := make([]api.CreateMealItem, len(d.items))
	for i, it := range d.items {
		items[i] = api.CreateMealItem{FoodID: it.FoodID, QuantityG: it.QuantityG}
	}
	return api.CreateMealRequest{
		Name:        d.Name,
		Description: d.Description,
		Items:       items,
	}
}
