package router

import (
	"github.com/LoayAhmed23/recipe-app-api/internal/handler"
	mid "github.com/LoayAhmed23/recipe-app-api/internal/middleware"
	"github.com/LoayAhmed23/recipe-app-api/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup registers middleware and all routes on the echo instance. The
// server binary and the handler tests share this wiring.
func Setup(e *echo.Echo) {
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.Health)

	// User routes. /me deliberately registers GET and PATCH only, so
	// PUT and POST answer 405.
	user := e.Group("/api/user")
	user.POST("/create", handler.RegisterUser)
	user.POST("/token", handler.CreateToken)

	me := user.Group("/me", mid.AuthMiddleware)
	me.GET("", handler.GetProfile)
	me.PATCH("", handler.UpdateProfile)
	me.POST("/image", handler.UploadProfileImage)

	// Recipe routes
	recipes := e.Group("/api/recipes", mid.AuthMiddleware)
	recipes.GET("", handler.ListRecipes)
	recipes.POST("", handler.CreateRecipe)
	recipes.GET("/:id", handler.GetRecipe)
	recipes.PUT("/:id", handler.UpdateRecipe)
	recipes.PATCH("/:id", handler.UpdateRecipe)
	recipes.DELETE("/:id", handler.DeleteRecipe)
	recipes.POST("/:id/upload-image", handler.UploadRecipeImage)

	// Tag and ingredient routes share one parametrized resource controller
	tags := handler.NewAttributeResource("tag", "tags", "recipe_tags", "tag_id",
		func(userID uint, name string) model.Tag {
			return model.Tag{UserID: userID, Name: name}
		})
	tags.Register(e.Group("/api/tags", mid.AuthMiddleware))

	ingredients := handler.NewAttributeResource("ingredient", "ingredients", "recipe_ingredients", "ingredient_id",
		func(userID uint, name string) model.Ingredient {
			return model.Ingredient{UserID: userID, Name: name}
		})
	ingredients.Register(e.Group("/api/ingredients", mid.AuthMiddleware))
}
