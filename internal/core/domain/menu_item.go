package domain

import "github.com/shopspring/decimal"

type Category string

const (
	CategoryMeals     Category = "Meals"
	CategorySnacks    Category = "Snacks"
	CategoryBeverages Category = "Beverages"
)

var Categories = []Category{CategoryMeals, CategorySnacks, CategoryBeverages}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ItemFields is a MenuItem without its id, as supplied by callers of AddItem.
type ItemFields struct {
	Name              string          `json:"name" validate:"required,min=2"`
	Price             decimal.Decimal `json:"price"`
	AvailabilityCount int             `json:"availability_count" validate:"min=0"`
	IsAvailable       bool            `json:"is_available"`
	Category          Category        `json:"category" validate:"required,oneof=Meals Snacks Beverages"`
	ImageID           string          `json:"image_id"`
	ImageURL          string          `json:"image_url" validate:"required_without=ImageID"`
}

type MenuItem struct {
	ID string `json:"id"`
	ItemFields
}

// Orderable reports whether a customer may order the item right now.
// The store itself never combines the two flags.
func (m MenuItem) Orderable() bool {
	return m.IsAvailable && m.AvailabilityCount > 0
}

func (m MenuItem) Fields() ItemFields {
	return m.ItemFields
}
