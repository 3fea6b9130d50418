package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LoayAhmed23/recipe-app-api/internal/middleware"
	"github.com/LoayAhmed23/recipe-app-api/internal/model"
	"github.com/LoayAhmed23/recipe-app-api/pkg/database"
	"github.com/LoayAhmed23/recipe-app-api/pkg/logger"
	"github.com/LoayAhmed23/recipe-app-api/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxPrice bounds a decimal(5,2) column: five digits, two of them fractional
var maxPrice = decimal.NewFromInt(1000)

type attributePayload struct {
	Name string `json:"name"`
}

// recipeRequest covers create (POST), full update (PUT) and partial
// update (PATCH). Nil means the field was absent from the payload.
// There deliberately is no user field: ownership always comes from the
// authenticated requester.
type recipeRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	TimeMinutes *int                `json:"time_minutes"`
	Price       *decimal.Decimal    `json:"price"`
	Link        *string             `json:"link"`
	Tags        *[]attributePayload `json:"tags"`
	Ingredients *[]attributePayload `json:"ingredients"`
}

// validateRecipeRequest checks field constraints. With required set,
// title, time_minutes and price must be present (create and PUT).
func validateRecipeRequest(req *recipeRequest, required bool) (string, string) {
	if required {
		if req.Title == nil {
			return "title", "title is required"
		}
		if req.TimeMinutes == nil {
			return "time_minutes", "time_minutes is required"
		}
		if req.Price == nil {
			return "price", "price is required"
		}
	}
	if req.Title != nil {
		if *req.Title == "" {
			return "title", "title is required"
		}
		if len(*req.Title) > 255 {
			return "title", "title must be at most 255 characters"
		}
	}
	if req.Price != nil {
		if !req.Price.Equal(req.Price.Round(2)) {
			return "price", "price must have at most 2 decimal places"
		}
		if req.Price.Abs().GreaterThanOrEqual(maxPrice) {
			return "price", "price must have at most 5 digits"
		}
	}
	if req.Link != nil && len(*req.Link) > 255 {
		return "link", "link must be at most 255 characters"
	}
	if req.Tags != nil {
		for _, t := range *req.Tags {
			if t.Name == "" {
				return "tags", "tag name is required"
			}
			if len(t.Name) > 255 {
				return "tags", "tag name must be at most 255 characters"
			}
		}
	}
	if req.Ingredients != nil {
		for _, i := range *req.Ingredients {
			if i.Name == "" {
				return "ingredients", "ingredient name is required"
			}
			if len(i.Name) > 255 {
				return "ingredients", "ingredient name must be at most 255 characters"
			}
		}
	}
	return "", ""
}

// parseIDList parses a comma-separated list of integer IDs
func parseIDList(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ListRecipes returns the requester's recipes, newest first, optionally
// filtered by tag and ingredient ID lists. A recipe matches a list when
// it has at least one of the given IDs; the two filters combine with
// AND. Join fan-out is collapsed with DISTINCT.
func ListRecipes(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)

	query := database.GetDB().Model(&model.Recipe{}).Where("recipes.user_id = ?", user.ID)

	if raw := c.QueryParam("tags"); raw != "" {
		ids, err := parseIDList(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, fieldErrors("tags", "tags must be a comma-separated list of integer ids"))
		}
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", ids)
	}
	if raw := c.QueryParam("ingredients"); raw != "" {
		ids, err := parseIDList(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, fieldErrors("ingredients", "ingredients must be a comma-separated list of integer ids"))
		}
		query = query.
			Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Where("recipe_ingredients.ingredient_id IN ?", ids)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var recipes []model.Recipe
	err := query.
		Distinct("recipes.*").
		Order("recipes.id DESC").
		Preload("Tags").
		Preload("Ingredients").
		Find(&recipes).Error
	if err != nil {
		log.Error("Failed to list recipes", zap.Uint("user_id", user.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve recipes"})
	}

	prometheus.RecordRecipeOperation("list")
	return c.JSON(http.StatusOK, newRecipeListResponse(recipes))
}

// getOwnedRecipe loads a recipe scoped to the requester. Anything not
// owned by the requester, including rows that exist under another user,
// resolves to gorm.ErrRecordNotFound.
func getOwnedRecipe(db *gorm.DB, userID uint, idParam string, preload bool) (*model.Recipe, error) {
	id, err := strconv.Atoi(idParam)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	query := db.Where("user_id = ?", userID)
	if preload {
		query = query.Preload("Tags").Preload("Ingredients")
	}
	var recipe model.Recipe
	if err := query.First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// GetRecipe returns the detail representation of one owned recipe
func GetRecipe(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)

	recipe, err := getOwnedRecipe(database.GetDB(), user.ID, c.Param("id"), true)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "recipe not found"})
	}

	prometheus.RecordRecipeOperation("retrieve")
	return c.JSON(http.StatusOK, newRecipeDetail(recipe))
}

// CreateRecipe creates a recipe owned by the requester. Nested tag and
// ingredient payloads are resolved-or-created under the requester and
// associated, all inside one transaction so a failed create leaves
// nothing behind.
func CreateRecipe(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)

	var req recipeRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid recipe payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if field, msg := validateRecipeRequest(&req, true); field != "" {
		return c.JSON(http.StatusBadRequest, fieldErrors(field, msg))
	}

	recipe := model.Recipe{
		UserID:      user.ID,
		Title:       *req.Title,
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.Link != nil {
		recipe.Link = *req.Link
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		return applyAttributes(tx, &recipe, req.Tags, req.Ingredients)
	})
	if err != nil {
		log.Error("Failed to create recipe", zap.Uint("user_id", user.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create recipe"})
	}

	created, err := getOwnedRecipe(database.GetDB(), user.ID, strconv.Itoa(int(recipe.ID)), true)
	if err != nil {
		log.Error("Failed to reload recipe", zap.Uint("recipe_id", recipe.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create recipe"})
	}

	prometheus.RecordRecipeOperation("create")
	log.Info("Recipe created", zap.Uint("recipe_id", recipe.ID), zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusCreated, newRecipeDetail(created))
}

// UpdateRecipe handles PUT (full) and PATCH (partial) updates. PUT
// requires title, time_minutes and price; optional fields absent from
// either payload stay untouched. A tags or ingredients field present in
// the payload replaces the recipe's associations (an empty list clears
// them); an absent field leaves them untouched. Ownership never
// changes.
func UpdateRecipe(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)
	full := c.Request().Method == http.MethodPut

	var req recipeRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid recipe payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if field, msg := validateRecipeRequest(&req, full); field != "" {
		return c.JSON(http.StatusBadRequest, fieldErrors(field, msg))
	}

	db := database.GetDB()
	recipe, err := getOwnedRecipe(db, user.ID, c.Param("id"), false)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "recipe not found"})
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.TimeMinutes != nil {
		updates["time_minutes"] = *req.TimeMinutes
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Link != nil {
		updates["link"] = *req.Link
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	err = db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(recipe).Updates(updates).Error; err != nil {
				return err
			}
		}
		return applyAttributes(tx, recipe, req.Tags, req.Ingredients)
	})
	if err != nil {
		log.Error("Failed to update recipe", zap.Uint("recipe_id", recipe.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update recipe"})
	}

	updated, err := getOwnedRecipe(db, user.ID, c.Param("id"), true)
	if err != nil {
		log.Error("Failed to reload recipe", zap.Uint("recipe_id", recipe.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update recipe"})
	}

	prometheus.RecordRecipeOperation("update")
	log.Info("Recipe updated", zap.Uint("recipe_id", recipe.ID), zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, newRecipeDetail(updated))
}

// DeleteRecipe removes an owned recipe and its association rows
func DeleteRecipe(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)

	db := database.GetDB()
	recipe, err := getOwnedRecipe(db, user.ID, c.Param("id"), false)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "recipe not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
	if err != nil {
		log.Error("Failed to delete recipe", zap.Uint("recipe_id", recipe.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete recipe"})
	}

	prometheus.RecordRecipeOperation("delete")
	log.Info("Recipe deleted", zap.Uint("recipe_id", recipe.ID), zap.Uint("user_id", user.ID))
	return c.NoContent(http.StatusNoContent)
}

// UploadRecipeImage stores an image for an owned recipe and returns the
// updated detail representation. A payload that does not sniff as an
// image is rejected and the prior image is kept.
func UploadRecipeImage(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)

	db := database.GetDB()
	recipe, err := getOwnedRecipe(db, user.ID, c.Param("id"), true)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "recipe not found"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		prometheus.RecordImageUpload("recipe", "invalid")
		return c.JSON(http.StatusBadRequest, fieldErrors("image", "image file is required"))
	}

	relPath, err := saveImage(file, model.RecipeImagePath)
	if err == errNotAnImage {
		log.Warn("Rejected non-image recipe upload", zap.Uint("recipe_id", recipe.ID))
		prometheus.RecordImageUpload("recipe", "invalid")
		return c.JSON(http.StatusBadRequest, fieldErrors("image", "uploaded file is not a valid image"))
	}
	if err != nil {
		log.Error("Failed to store recipe image", zap.Uint("recipe_id", recipe.ID), zap.Error(err))
		prometheus.RecordImageUpload("recipe", "error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store image"})
	}

	if err := db.Model(recipe).Update("image", relPath).Error; err != nil {
		log.Error("Failed to save recipe image path", zap.Uint("recipe_id", recipe.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store image"})
	}
	recipe.Image = &relPath
	prometheus.RecordImageUpload("recipe", "ok")

	log.Info("Recipe image uploaded", zap.Uint("recipe_id", recipe.ID), zap.String("path", relPath))
	return c.JSON(http.StatusOK, newRecipeDetail(recipe))
}

// applyAttributes resolves nested tag/ingredient payloads under the
// recipe's owner and replaces the associations. Nil payloads are
// untouched fields; empty slices clear the relation.
func applyAttributes(tx *gorm.DB, recipe *model.Recipe, tags, ingredients *[]attributePayload) error {
	if tags != nil {
		resolved := make([]model.Tag, 0, len(*tags))
		for _, payload := range *tags {
			tag, err := model.ResolveOrCreateTag(tx, recipe.UserID, payload.Name)
			if err != nil {
				return err
			}
			resolved = append(resolved, *tag)
		}
		if len(resolved) == 0 {
			if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
				return err
			}
		} else if err := tx.Model(recipe).Association("Tags").Replace(&resolved); err != nil {
			return err
		}
	}
	if ingredients != nil {
		resolved := make([]model.Ingredient, 0, len(*ingredients))
		for _, payload := range *ingredients {
			ingredient, err := model.ResolveOrCreateIngredient(tx, recipe.UserID, payload.Name)
			if err != nil {
				return err
			}
			resolved = append(resolved, *ingredient)
		}
		if len(resolved) == 0 {
			if err := tx.Model(recipe).Association("Ingredients").Clear(); err != nil {
				return err
			}
		} else if err := tx.Model(recipe).Association("Ingredients").Replace(&resolved); err != nil {
			return err
		}
	}
	return nil
}
