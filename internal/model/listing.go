package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places the price column stores.
const PriceScale = 2

// MaxPrice is the largest value a decimal(12,2) price column holds.
var MaxPrice = decimal.New(999999999999, -PriceScale)

// ValidPrice reports whether d can be stored as a listing price without
// rounding or overflow.
func ValidPrice(d decimal.Decimal) bool {
	return !d.IsNegative() && !d.GreaterThan(MaxPrice) && d.Equal(d.Round(PriceScale))
}

// Listing is a single marketplace item posting owned by one user.
type Listing struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OwnerID     uint            `json:"owner_id" gorm:"column:user_id;not null;index"`
	Title       string          `json:"title" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;default:0;index"`
	Images      StringList      `json:"images" gorm:"type:text"`
	Category    Category        `json:"category" gorm:"size:64;not null;index"`
	Condition   Condition       `json:"condition" gorm:"size:32;not null"`
	Location    *string         `json:"location" gorm:"size:255"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	User     *User     `json:"user,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Comments []Comment `json:"-" gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
}

// OwnerKey returns the id of the user allowed to mutate the listing.
func (l *Listing) OwnerKey() uint { return l.OwnerID }

// ResourceName identifies listings in authorization messages.
func (l *Listing) ResourceName() string { return "listing" }

// ListingChanges carries a partial update; nil fields are left untouched.
type ListingChanges struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	Images      *[]string
	Category    *Category
	Condition   *Condition
	Location    *string
}

// Columns returns the column → value map for the supplied fields only.
func (c ListingChanges) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if c.Title != nil {
		cols["title"] = *c.Title
	}
	if c.Description != nil {
		cols["description"] = *c.Description
	}
	if c.Price != nil {
		cols["price"] = *c.Price
	}
	if c.Images != nil {
		cols["images"] = StringList(*c.Images)
	}
	if c.Category != nil {
		cols["category"] = *c.Category
	}
	if c.Condition != nil {
		cols["condition"] = *c.Condition
	}
	if c.Location != nil {
		cols["location"] = *c.Location
	}
	return cols
}

// Empty reports whether no field was supplied.
func (c ListingChanges) Empty() bool {
	return len(c.Columns()) == 0
}

// PriceRange is an inclusive price interval. A nil Max means no upper bound.
type PriceRange struct {
	Min decimal.Decimal
	Max *decimal.Decimal
}

// Contains reports whether price lies in the range, bounds included.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	if price.LessThan(r.Min) {
		return false
	}
	return r.Max == nil || !price.GreaterThan(*r.Max)
}

// CategoryQuery filters listings by category.
type CategoryQuery struct {
	Category  Category
	ExcludeID *uint
	// Limit caps the result count; zero means no cap.
	Limit int
}
