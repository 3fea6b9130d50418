package handler

import (
	"github.com/LoayAhmed23/recipe-app-api/internal/model"
)

// Response shaping. Each action maps to an explicit representation
// function: lists use the reduced recipe shape, single-item reads and
// the bodies of create/update/upload use the detail shape.

type userResponse struct {
	ID           uint    `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	ProfileImage *string `json:"profile_image"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		ProfileImage: u.ProfileImage,
	}
}

type attributeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newTagResponses(tags []model.Tag) []attributeResponse {
	out := make([]attributeResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, attributeResponse{ID: t.ID, Name: t.Name})
	}
	return out
}

func newIngredientResponses(ingredients []model.Ingredient) []attributeResponse {
	out := make([]attributeResponse, 0, len(ingredients))
	for _, i := range ingredients {
		out = append(out, attributeResponse{ID: i.ID, Name: i.Name})
	}
	return out
}

// recipeListItem is the reduced list representation: no description, no
// image. Price always renders with two decimal places, so 5.50 stays
// "5.50" rather than collapsing to "5.5".
type recipeListItem struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       string              `json:"price"`
	Link        string              `json:"link"`
	Tags        []attributeResponse `json:"tags"`
	Ingredients []attributeResponse `json:"ingredients"`
}

func newRecipeListItem(r *model.Recipe) recipeListItem {
	return recipeListItem{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        newTagResponses(r.Tags),
		Ingredients: newIngredientResponses(r.Ingredients),
	}
}

func newRecipeListResponse(recipes []model.Recipe) []recipeListItem {
	out := make([]recipeListItem, 0, len(recipes))
	for i := range recipes {
		out = append(out, newRecipeListItem(&recipes[i]))
	}
	return out
}

// recipeDetail is the full representation including description and image
type recipeDetail struct {
	recipeListItem
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

func newRecipeDetail(r *model.Recipe) recipeDetail {
	return recipeDetail{
		recipeListItem: newRecipeListItem(r),
		Description:    r.Description,
		Image:          r.Image,
	}
}
