package model

import (
	"path/filepath"

	"github.com/google/uuid"
)

// RecipeImagePath generates a storage path for an uploaded recipe
// image. The file name is replaced with a fresh UUID so paths never
// collide; the original extension is kept.
func RecipeImagePath(fileName string) string {
	return filepath.Join("uploads", "recipe", uuid.New().String()+filepath.Ext(fileName))
}

// ProfileImagePath generates a storage path for an uploaded profile image
func ProfileImagePath(fileName string) string {
	return filepath.Join("uploads", "profile_image", uuid.New().String()+filepath.Ext(fileName))
}
