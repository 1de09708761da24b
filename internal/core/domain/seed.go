package domain

import "github.com/shopspring/decimal"

// SeedMenu returns the fixed catalog every store starts from.
func SeedMenu() []MenuItem {
	return []MenuItem{
		seedItem("1", "Veg Thali", 80, 25, true, CategoryMeals, "veg-thali"),
		seedItem("2", "Chicken Biryani", 120, 15, true, CategoryMeals, "chicken-biryani"),
		seedItem("3", "Masala Dosa", 60, 20, true, CategoryMeals, "masala-dosa"),
		seedItem("4", "Samosa", 15, 40, true, CategorySnacks, "samosa"),
		seedItem("5", "Vada Pav", 25, 0, true, CategorySnacks, "vada-pav"),
		seedItem("6", "Veg Puff", 20, 18, false, CategorySnacks, "veg-puff"),
		seedItem("7", "Masala Chai", 10, 50, true, CategoryBeverages, "masala-chai"),
		seedItem("8", "Filter Coffee", 15, 30, true, CategoryBeverages, "filter-coffee"),
		seedItem("9", "Fresh Lime Soda", 30, 12, true, CategoryBeverages, "lime-soda"),
	}
}

func seedItem(id, name string, price int64, count int, available bool, category Category, imageID string) MenuItem {
	return MenuItem{
		ID: id,
		ItemFields: ItemFields{
			Name:              name,
			Price:             decimal.NewFromInt(price),
			AvailabilityCount: count,
			IsAvailable:       available,
			Category:          category,
			ImageID:           imageID,
		},
	}
}
