package model

import "strings"

// Category is the closed set of listing categories.
type Category string

const (
	CategoryElectronics      Category = "Electronics"
	CategoryFashion          Category = "Fashion & Apparel"
	CategoryHomeFurniture    Category = "Home & Furniture"
	CategoryVehicles         Category = "Vehicles"
	CategoryBooksEducation   Category = "Books & Education"
	CategorySportsRecreation Category = "Sports & Recreation"
	CategoryHealthBeauty     Category = "Health & Beauty"
	CategoryCollectiblesArt  Category = "Collectibles & Art"
)

// Condition is the closed set of item conditions.
type Condition string

const (
	ConditionNew     Condition = "New"
	ConditionLikeNew Condition = "Like New"
	ConditionGood    Condition = "Good"
	ConditionFair    Condition = "Fair"
	ConditionPoor    Condition = "Poor"
	ConditionUsed    Condition = "Used"
)

// Categories returns every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryFashion,
		CategoryHomeFurniture,
		CategoryVehicles,
		CategoryBooksEducation,
		CategorySportsRecreation,
		CategoryHealthBeauty,
		CategoryCollectiblesArt,
	}
}

// Conditions returns every valid condition, best first.
func Conditions() []Condition {
	return []Condition{
		ConditionNew,
		ConditionLikeNew,
		ConditionGood,
		ConditionFair,
		ConditionPoor,
		ConditionUsed,
	}
}

// Valid reports whether c is a member of the category enumeration (exact match).
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Valid reports whether c is a member of the condition enumeration (exact match).
func (c Condition) Valid() bool {
	for _, known := range Conditions() {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryList renders the enumeration for validation messages.
func CategoryList() string {
	names := make([]string, 0, len(Categories()))
	for _, c := range Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// ConditionList renders the enumeration for validation messages.
func ConditionList() string {
	names := make([]string, 0, len(Conditions()))
	for _, c := range Conditions() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
