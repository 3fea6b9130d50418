package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is owned by exactly one user and carries non-owning
// many-to-many references to tags and ingredients.
type Recipe struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"-" gorm:"index;not null"`
	User        User            `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Title       string          `json:"title" gorm:"type:varchar(255);not null"`
	Description string          `json:"description" gorm:"type:text"`
	TimeMinutes int             `json:"time_minutes" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(5,2)"`
	Link        string          `json:"link" gorm:"type:varchar(255)"`
	Image       *string         `json:"image"`
	Tags        []Tag           `json:"tags" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []Ingredient    `json:"ingredients" gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

func (r Recipe) String() string {
	return r.Title
}
