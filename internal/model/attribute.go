package model

import (
	"time"

	"gorm.io/gorm"
)

// Tag labels recipes for filtering. Tags are scoped per user: the same
// name under two owners is two distinct rows.
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	UserID    uint      `json:"-" gorm:"index;not null"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (t Tag) String() string {
	return t.Name
}

// Ingredient is an ingredient of a recipe, scoped per user like Tag
type Ingredient struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	UserID    uint      `json:"-" gorm:"index;not null"`
	User      User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (i Ingredient) String() string {
	return i.Name
}

// ResolveOrCreateTag looks up the owner's tag by exact name and creates
// it when absent. There is no unique constraint on (user_id, name), so
// two concurrent identical calls can produce duplicate rows; each call
// on its own is an idempotent upsert.
func ResolveOrCreateTag(db *gorm.DB, userID uint, name string) (*Tag, error) {
	var tag Tag
	err := db.Where("user_id = ? AND name = ?", userID, name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	tag = Tag{Name: name, UserID: userID}
	if err := db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// ResolveOrCreateIngredient is the ingredient counterpart of ResolveOrCreateTag
func ResolveOrCreateIngredient(db *gorm.DB, userID uint, name string) (*Ingredient, error) {
	var ingredient Ingredient
	err := db.Where("user_id = ? AND name = ?", userID, name).First(&ingredient).Error
	if err == nil {
		return &ingredient, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	ingredient = Ingredient{Name: name, UserID: userID}
	if err := db.Create(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}
