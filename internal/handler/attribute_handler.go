package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/LoayAhmed23/recipe-app-api/internal/middleware"
	"github.com/LoayAhmed23/recipe-app-api/internal/model"
	"github.com/LoayAhmed23/recipe-app-api/pkg/database"
	"github.com/LoayAhmed23/recipe-app-api/pkg/logger"
	"github.com/LoayAhmed23/recipe-app-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// recipeAttribute constrains the shared resource controller to the two
// recipe attribute models
type recipeAttribute interface {
	model.Tag | model.Ingredient
}

// AttributeResource is one set of CRUD handlers shared by tags and
// ingredients, parametrized by the entity type and its table wiring
// instead of subclassing.
type AttributeResource[T recipeAttribute] struct {
	resource  string // metric/log label, e.g. "tag"
	table     string
	joinTable string
	joinFK    string // attribute FK column in the join table
	newModel  func(userID uint, name string) T
}

// NewAttributeResource wires an attribute model into the shared handlers
func NewAttributeResource[T recipeAttribute](resource, table, joinTable, joinFK string, newModel func(userID uint, name string) T) *AttributeResource[T] {
	return &AttributeResource[T]{
		resource:  resource,
		table:     table,
		joinTable: joinTable,
		joinFK:    joinFK,
		newModel:  newModel,
	}
}

// Register mounts the handlers on a route group
func (r *AttributeResource[T]) Register(g *echo.Group) {
	g.GET("", r.List)
	g.POST("", r.Create)
	g.GET("/:id", r.Get)
	g.PATCH("/:id", r.Update)
	g.DELETE("/:id", r.Delete)
}

// List returns the requester's attributes ordered by descending name.
// With assigned_only=1 only attributes attached to at least one recipe
// are returned; the join fan-out is collapsed with DISTINCT.
func (r *AttributeResource[T]) List(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)

	assignedOnly := false
	switch c.QueryParam("assigned_only") {
	case "", "0":
	case "1":
		assignedOnly = true
	default:
		return c.JSON(http.StatusBadRequest, fieldErrors("assigned_only", "assigned_only must be 0 or 1"))
	}

	query := database.GetDB().Where(r.table+".user_id = ?", user.ID)
	if assignedOnly {
		query = query.Joins("JOIN " + r.joinTable + " ON " + r.joinTable + "." + r.joinFK + " = " + r.table + ".id")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var items []T
	if err := query.Distinct(r.table + ".*").Order(r.table + ".name DESC").Find(&items).Error; err != nil {
		log.Error("Failed to list attributes", zap.String("resource", r.resource), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve " + r.resource + "s"})
	}

	prometheus.RecordAttributeOperation(r.resource, "list")
	return c.JSON(http.StatusOK, items)
}

// Create creates an attribute owned by the requester
func (r *AttributeResource[T]) Create(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)

	var req attributePayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, fieldErrors("name", "name is required"))
	}
	if len(req.Name) > 255 {
		return c.JSON(http.StatusBadRequest, fieldErrors("name", "name must be at most 255 characters"))
	}

	item := r.newModel(user.ID, req.Name)
	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := database.GetDB().Create(&item).Error; err != nil {
		log.Error("Failed to create attribute", zap.String("resource", r.resource), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create " + r.resource})
	}

	prometheus.RecordAttributeOperation(r.resource, "create")
	return c.JSON(http.StatusCreated, item)
}

// find loads one attribute scoped to the requester
func (r *AttributeResource[T]) find(userID uint, idParam string) (T, int, bool) {
	var item T
	id, err := strconv.Atoi(idParam)
	if err != nil {
		return item, 0, false
	}
	if err := database.GetDB().Where("user_id = ?", userID).First(&item, id).Error; err != nil {
		return item, 0, false
	}
	return item, id, true
}

// Get returns one owned attribute; rows under other users resolve to 404
func (r *AttributeResource[T]) Get(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)

	item, _, ok := r.find(user.ID, c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": r.resource + " not found"})
	}

	prometheus.RecordAttributeOperation(r.resource, "retrieve")
	return c.JSON(http.StatusOK, item)
}

// Update renames an owned attribute
func (r *AttributeResource[T]) Update(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)

	item, _, ok := r.find(user.ID, c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": r.resource + " not found"})
	}

	var req attributePayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, fieldErrors("name", "name is required"))
	}
	if len(req.Name) > 255 {
		return c.JSON(http.StatusBadRequest, fieldErrors("name", "name must be at most 255 characters"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Model(&item).Update("name", req.Name).Error; err != nil {
		log.Error("Failed to update attribute", zap.String("resource", r.resource), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update " + r.resource})
	}

	prometheus.RecordAttributeOperation(r.resource, "update")
	return c.JSON(http.StatusOK, item)
}

// Delete removes an owned attribute and its recipe associations. The
// recipes themselves are untouched.
func (r *AttributeResource[T]) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	user, _ := middleware.CurrentUser(c)

	item, id, ok := r.find(user.ID, c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": r.resource + " not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+r.joinTable+" WHERE "+r.joinFK+" = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		log.Error("Failed to delete attribute", zap.String("resource", r.resource), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete " + r.resource})
	}

	prometheus.RecordAttributeOperation(r.resource, "delete")
	return c.NoContent(http.StatusNoContent)
}
