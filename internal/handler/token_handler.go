package handler

import (
	"net/http"
	"time"

	"github.com/LoayAhmed23/recipe-app-api/internal/model"
	"github.com/LoayAhmed23/recipe-app-api/pkg/database"
	"github.com/LoayAhmed23/recipe-app-api/pkg/logger"
	"github.com/LoayAhmed23/recipe-app-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateToken validates credentials and returns the user's opaque
// bearer token. Every failure mode answers 400 with the same body so
// the response does not reveal whether the email or the password was
// wrong.
func CreateToken(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse token request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("blank_credentials")
		return c.JSON(http.StatusBadRequest, fieldErrors("non_field_errors", "unable to authenticate with provided credentials"))
	}

	db := database.GetDB()

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if err := db.Where("email = ?", model.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		log.Warn("Token request for unknown email", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusBadRequest, fieldErrors("non_field_errors", "unable to authenticate with provided credentials"))
	}

	if !user.IsActive || !user.CheckPassword(req.Password) {
		log.Warn("Token request with bad credentials", zap.String("email", user.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusBadRequest, fieldErrors("non_field_errors", "unable to authenticate with provided credentials"))
	}

	token, err := issueToken(db, user.ID)
	if err != nil {
		log.Error("Failed to issue token", zap.Uint("user_id", user.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Token issued", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"token": token.Token})
}

// issueToken returns the user's live token, replacing an expired one.
// The unique index on user_id keeps the mapping 1:1.
func issueToken(db *gorm.DB, userID uint) (*model.AuthToken, error) {
	var token model.AuthToken
	err := db.Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		if !token.IsExpired() {
			return &token, nil
		}
		if err := db.Delete(&token).Error; err != nil {
			return nil, err
		}
		prometheus.ActiveTokensGauge.Dec()
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	token = model.AuthToken{
		UserID:    userID,
		ExpiresAt: time.Now().Add(cfg.TokenLifetime),
	}
	if err := db.Create(&token).Error; err != nil {
		return nil, err
	}
	prometheus.ActiveTokensGauge.Inc()
	return &token, nil
}
