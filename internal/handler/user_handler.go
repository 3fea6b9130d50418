package handler

import (
	"errors"
	"fmt"
	"net/http"
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

// RegisterUser creates a new account
func RegisterUser(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, fieldErrors("email", "email is required"))
	}
	if len(req.Email) > 255 {
		return c.JSON(http.StatusBadRequest, fieldErrors("email", "email must be at most 255 characters"))
	}
	if len(req.Password) < cfg.PasswordMinLength {
		return c.JSON(http.StatusBadRequest, fieldErrors("password",
			fmt.Sprintf("password must be at least %d characters", cfg.PasswordMinLength)))
	}
	if len(req.Name) > 255 {
		return c.JSON(http.StatusBadRequest, fieldErrors("name", "name must be at most 255 characters"))
	}

	// The unique index on the normalized email is the duplicate check;
	// concurrent registrations of the same address both land here.
	defer prometheus.TrackDBOperation("insert")(time.Now())
	user, err := model.CreateUser(database.GetDB(), req.Email, req.Password, req.Name)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		log.Warn("Email already registered", zap.String("email", req.Email))
		return c.JSON(http.StatusBadRequest, fieldErrors("email", "email already registered"))
	}
	if err != nil {
		log.Error("Failed to create user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	log.Info("User registered", zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, newUserResponse(user))
}

// GetProfile returns the authenticated user's representation
func GetProfile(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, newUserResponse(&user))
}

// UpdateProfile partially updates the authenticated user's name, email
// or password. The password, when present, is re-hashed; it never
// appears in the response.
func UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Name     *string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse profile update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	db := database.GetDB()
	updates := map[string]interface{}{}

	if req.Name != nil {
		if len(*req.Name) > 255 {
			return c.JSON(http.StatusBadRequest, fieldErrors("name", "name must be at most 255 characters"))
		}
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		email := model.NormalizeEmail(*req.Email)
		if email == "" {
			return c.JSON(http.StatusBadRequest, fieldErrors("email", "email is required"))
		}
		if len(email) > 255 {
			return c.JSON(http.StatusBadRequest, fieldErrors("email", "email must be at most 255 characters"))
		}
		var count int64
		db.Model(&model.User{}).Where("email = ? AND id != ?", email, user.ID).Count(&count)
		if count > 0 {
			return c.JSON(http.StatusBadRequest, fieldErrors("email", "email already registered"))
		}
		updates["email"] = email
	}
	if req.Password != nil {
		if len(*req.Password) < cfg.PasswordMinLength {
			return c.JSON(http.StatusBadRequest, fieldErrors("password",
				fmt.Sprintf("password must be at least %d characters", cfg.PasswordMinLength)))
		}
		hash, err := model.HashPassword(*req.Password)
		if err != nil {
			log.Error("Failed to hash password", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		updates["password"] = hash
	}

	if len(updates) > 0 {
		defer prometheus.TrackDBOperation("update")(time.Now())
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			// A racing registration can take the email between the
			// uniqueness pre-check and this write
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return c.JSON(http.StatusBadRequest, fieldErrors("email", "email already registered"))
			}
			log.Error("Failed to update profile", zap.Uint("user_id", user.ID), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		middleware.InvalidateUserCache(c)
	}

	if err := db.First(&user, user.ID).Error; err != nil {
		log.Error("Failed to reload user", zap.Uint("user_id", user.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	log.Info("Profile updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, newUserResponse(&user))
}

// UploadProfileImage stores a profile image for the authenticated user
func UploadProfileImage(c echo.Context) error {
	log := logger.FromContext(c)

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		prometheus.RecordImageUpload("profile", "invalid")
		return c.JSON(http.StatusBadRequest, fieldErrors("image", "image file is required"))
	}

	relPath, err := saveImage(file, model.ProfileImagePath)
	if err == errNotAnImage {
		log.Warn("Rejected non-image profile upload", zap.Uint("user_id", user.ID))
		prometheus.RecordImageUpload("profile", "invalid")
		return c.JSON(http.StatusBadRequest, fieldErrors("image", "uploaded file is not a valid image"))
	}
	if err != nil {
		log.Error("Failed to store profile image", zap.Uint("user_id", user.ID), zap.Error(err))
		prometheus.RecordImageUpload("profile", "error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store image"})
	}

	if err := database.GetDB().Model(&user).Update("profile_image", relPath).Error; err != nil {
		log.Error("Failed to save profile image path", zap.Uint("user_id", user.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store image"})
	}
	middleware.InvalidateUserCache(c)
	prometheus.RecordImageUpload("profile", "ok")

	log.Info("Profile image uploaded", zap.Uint("user_id", user.ID), zap.String("path", relPath))
	return c.JSON(http.StatusOK, echo.Map{"profile_image": relPath})
}
