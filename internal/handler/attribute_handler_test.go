package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/LoayAhmed23/recipe-app-api/internal/model"
	"github.com/LoayAhmed23/recipe-app-api/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTagsRequiresAuth(t *testing.T) {
	e := setupServer(t)

	rec := doJSON(e, http.MethodGet, "/api/tags", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListTags(t *testing.T) {
	e := setupServer(t)
	user, token := createTestUser(t, "user@example.com", "password")
	other, _ := createTestUser(t, "other@example.com", "password")
	db := database.GetDB()

	_, err := model.ResolveOrCreateTag(db, user.ID, "Vegan")
	require.NoError(t, err)
	_, err = model.ResolveOrCreateTag(db, user.ID, "Dessert")
	require.NoError(t, err)
	_, err = model.ResolveOrCreateTag(db, other.ID, "Fruity")
	require.NoError(t, err)

	rec := doJSON(e, http.MethodGet, "/api/tags", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeList(t, rec)
	require.Len(t, list, 2)

	// Ordered by name, descending
	assert.Equal(t, "Vegan", list[0]["name"])
	assert.Equal(t, "Dessert", list[1]["name"])
}

func TestListIngredients(t *testing.T) {
	e := setupServer(t)
	user, token := createTestUser(t, "user@example.com", "password")
	db := database.GetDB()

	_, err := model.ResolveOrCreateIngredient(db, user.ID, "Kale")
	require.NoError(t, err)
	_, err = model.ResolveOrCreateIngredient(db, user.ID, "Salt")
	require.NoError(t, err)

	rec := doJSON(e, http.MethodGet, "/api/ingredients", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeList(t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "Salt", list[0]["name"])
	assert.Equal(t, "Kale", list[1]["name"])
}

func TestListTagsAssignedOnly(t *testing.T) {
	e := setupServer(t)
	user, token := createTestUser(t, "user@example.com", "password")
	db := database.GetDB()

	assigned, err := model.ResolveOrCreateTag(db, user.ID, "Breakfast")
	require.NoError(t, err)
	_, err = model.ResolveOrCreateTag(db, user.ID, "Unused")
	require.NoError(t, err)

	recipe := createTestRecipe(t, user.ID, "Eggs")
	require.NoError(t, db.Model(recipe).Association("Tags").Append(assigned))

	rec := doJSON(e, http.MethodGet, "/api/tags?assigned_only=1", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeList(t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Breakfast", list[0]["name"])

	// assigned_only=0 behaves like the unfiltered listing
	rec = doJSON(e, http.MethodGet, "/api/tags?assigned_only=0", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 2)
}

func TestListTagsAssignedOnlyDeduplicates(t *testing.T) {
	e := setupServer(t)
	user, token := createTestUser(t, "user@example.com", "password")
	db := database.GetDB()

	tag, err := model.ResolveOrCreateTag(db, user.ID, "Breakfast")
	require.NoError(t, err)

	// The same tag on two recipes still lists once
	first := createTestRecipe(t, user.ID, "Eggs")
	second := createTestRecipe(t, user.ID, "Porridge")
	require.NoError(t, db.Model(first).Association("Tags").Append(tag))
	require.NoError(t, db.Model(second).Association("Tags").Append(tag))

	rec := doJSON(e, http.MethodGet, "/api/tags?assigned_only=1", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 1)
}

func TestListIngredientsAssignedOnly(t *testing.T) {
	e := setupServer(t)
	user, token := createTestUser(t, "user@example.com", "password")
	db := database.GetDB()

	assigned, err := model.ResolveOrCreateIngredient(db, user.ID, "Apples")
	require.NoError(t, err)
	_, err = model.ResolveOrCreateIngredient(db, user.ID, "Turkey")
	require.NoError(t, err)

	recipe := createTestRecipe(t, user.ID, "Apple crumble")
	require.NoError(t, db.Model(recipe).Association("Ingredients").Append(assigned))

	rec := doJSON(e, http.MethodGet, "/api/ingredients?assigned_only=1", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeList(t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Apples", list[0]["name"])
}

func TestListTagsAssignedOnlyMalformed(t *testing.T) {
	e := setupServer(t)
	_, token := createTestUser(t, "user@example.com", "password")

	rec := doJSON(e, http.MethodGet, "/api/tags?assigned_only=yes", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTag(t *testing.T) {
	e := setupServer(t)
	user, token := createTestUser(t, "user@example.com", "password")

	rec := doJSON(e, http.MethodPost, "/api/tags", map[string]string{"name": "Vegan"}, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Vegan", decodeBody(t, rec)["name"])

	var stored model.Tag
	require.NoError(t, database.GetDB().Where("name = ?", "Vegan").First(&stored).Error)
	assert.Equal(t, user.ID, stored.UserID)
}

func TestCreateTagBlankName(t *testing.T) {
	e := setupServer(t)
	_, token := createTestUser(t, "user@example.com", "password")

	rec := doJSON(e, http.MethodPost, "/api/tags", map[string]string{"name": ""}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	database.GetDB().Model(&model.Tag{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateIngredient(t *testing.T) {
	e := setupServer(t)
	user, token := createTestUser(t, "user@example.com", "password")

	rec := doJSON(e, http.MethodPost, "/api/ingredients", map[string]string{"name": "Cabbage"}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var stored model.Ingredient
	require.NoError(t, database.GetDB().Where("name = ?", "Cabbage").First(&stored).Error)
	assert.Equal(t, user.ID, stored.UserID)
}

func TestUpdateTag(t *testing.T) {
	e := setupServer(t)
	user, token := createTestUser(t, "user@example.com", "password")

	tag, err := model.ResolveOrCreateTag(database.GetDB(), user.ID, "After dinner")
	require.NoError(t, err)

	rec := doJSON(e, http.MethodPatch, fmt.Sprintf("/api/tags/%d", tag.ID),
		map[string]string{"name": "Dessert"}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var stored model.Tag
	require.NoError(t, database.GetDB().First(&stored, tag.ID).Error)
	assert.Equal(t, "Dessert", stored.Name)
}

func TestUpdateTagNotOwnedIsNotFound(t *testing.T) {
	e := setupServer(t)
	_, token := createTestUser(t, "user@example.com", "password")
	other, _ := createTestUser(t, "other@example.com", "password")

	theirs, err := model.ResolveOrCreateTag(database.GetDB(), other.ID, "Fruity")
	require.NoError(t, err)

	rec := doJSON(e, http.MethodPatch, fmt.Sprintf("/api/tags/%d", theirs.ID),
		map[string]string{"name": "Hijacked"}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var stored model.Tag
	require.NoError(t, database.GetDB().First(&stored, theirs.ID).Error)
	assert.Equal(t, "Fruity", stored.Name)
}

func TestDeleteIngredient(t *testing.T) {
	e := setupServer(t)
	user, token := createTestUser(t, "user@example.com", "password")
	db := database.GetDB()

	ingredient, err := model.ResolveOrCreateIngredient(db, user.ID, "Lettuce")
	require.NoError(t, err)

	// Deleting an assigned ingredient also removes the association
	recipe := createTestRecipe(t, user.ID, "Salad")
	require.NoError(t, db.Model(recipe).Association("Ingredients").Append(ingredient))

	rec := doJSON(e, http.MethodDelete, fmt.Sprintf("/api/ingredients/%d", ingredient.ID), nil, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	db.Model(&model.Ingredient{}).Count(&count)
	assert.Zero(t, count)

	var stored model.Recipe
	require.NoError(t, db.First(&stored, recipe.ID).Error)
	assert.Zero(t, db.Model(&stored).Association("Ingredients").Count())
}

func TestDeleteTagNotOwnedIsNotFound(t *testing.T) {
	e := setupServer(t)
	_, token := createTestUser(t, "user@example.com", "password")
	other, _ := createTestUser(t, "other@example.com", "password")

	theirs, err := model.ResolveOrCreateTag(database.GetDB(), other.ID, "Fruity")
	require.NoError(t, err)

	rec := doJSON(e, http.MethodDelete, fmt.Sprintf("/api/tags/%d", theirs.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var count int64
	database.GetDB().Model(&model.Tag{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
