package model_test

import (
	"strings"
	"testing"

	"github.com/LoayAhmed23/recipe-app-api/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.AuthToken{},
		&model.Tag{},
		&model.Ingredient{},
		&model.Recipe{},
	))
	return db
}

func TestCreateUserHashesPassword(t *testing.T) {
	db := newTestDB(t)

	user, err := model.CreateUser(db, "test@example.com", "password", "Test User")
	require.NoError(t, err)

	assert.NotEqual(t, "password", user.Password)
	assert.True(t, user.CheckPassword("password"))
	assert.False(t, user.CheckPassword("other-password"))
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.False(t, user.IsSuperuser)
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	db := newTestDB(t)

	cases := []struct {
		in   string
		want string
	}{
		{"test1@EXAMPLE.com", "test1@example.com"},
		{"Test2@EXAmple.COM", "Test2@example.com"},
		{"TEST3@EXAMPLE.COM", "TEST3@example.com"},
		{"test4@example.COM", "test4@example.com"},
	}
	for _, tc := range cases {
		user, err := model.CreateUser(db, tc.in, "password", "")
		require.NoError(t, err)
		assert.Equal(t, tc.want, user.Email)
	}
}

func TestCreateUserWithoutEmailFails(t *testing.T) {
	db := newTestDB(t)

	_, err := model.CreateUser(db, "", "password", "")
	assert.ErrorIs(t, err, model.ErrEmailRequired)

	_, err = model.CreateUser(db, "   ", "password", "")
	assert.ErrorIs(t, err, model.ErrEmailRequired)

	var count int64
	db.Model(&model.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateSuperuser(t *testing.T) {
	db := newTestDB(t)

	user, err := model.CreateSuperuser(db, "admin@example.com", "password")
	require.NoError(t, err)

	var stored model.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.True(t, stored.IsStaff)
	assert.True(t, stored.IsSuperuser)
	assert.True(t, stored.CheckPassword("password"))
}

func TestStringRepresentations(t *testing.T) {
	recipe := model.Recipe{Title: "Sample recipe"}
	assert.Equal(t, "Sample recipe", recipe.String())

	tag := model.Tag{Name: "Vegan"}
	assert.Equal(t, "Vegan", tag.String())

	ingredient := model.Ingredient{Name: "Cucumber"}
	assert.Equal(t, "Cucumber", ingredient.String())
}

func TestResolveOrCreateTag(t *testing.T) {
	db := newTestDB(t)

	user, err := model.CreateUser(db, "user@example.com", "password", "")
	require.NoError(t, err)
	other, err := model.CreateUser(db, "other@example.com", "password", "")
	require.NoError(t, err)

	first, err := model.ResolveOrCreateTag(db, user.ID, "Vegan")
	require.NoError(t, err)

	// Same owner and name resolves to the existing row
	second, err := model.ResolveOrCreateTag(db, user.ID, "Vegan")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// Same name under another owner is a distinct row
	theirs, err := model.ResolveOrCreateTag(db, other.ID, "Vegan")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, theirs.ID)

	var count int64
	db.Model(&model.Tag{}).Where("name = ?", "Vegan").Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestResolveOrCreateIngredient(t *testing.T) {
	db := newTestDB(t)

	user, err := model.CreateUser(db, "user@example.com", "password", "")
	require.NoError(t, err)

	first, err := model.ResolveOrCreateIngredient(db, user.ID, "Salt")
	require.NoError(t, err)
	second, err := model.ResolveOrCreateIngredient(db, user.ID, "Salt")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&model.Ingredient{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRecipePriceRoundTrip(t *testing.T) {
	db := newTestDB(t)

	user, err := model.CreateUser(db, "user@example.com", "password", "")
	require.NoError(t, err)

	recipe := model.Recipe{
		UserID:      user.ID,
		Title:       "Cheesecake",
		TimeMinutes: 30,
		Price:       decimal.RequireFromString("80.65"),
	}
	require.NoError(t, db.Create(&recipe).Error)

	var stored model.Recipe
	require.NoError(t, db.First(&stored, recipe.ID).Error)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("80.65")))
}

func TestAuthTokenGeneration(t *testing.T) {
	db := newTestDB(t)

	user, err := model.CreateUser(db, "user@example.com", "password", "")
	require.NoError(t, err)
	other, err := model.CreateUser(db, "other@example.com", "password", "")
	require.NoError(t, err)

	first := model.AuthToken{UserID: user.ID}
	require.NoError(t, db.Create(&first).Error)
	second := model.AuthToken{UserID: other.ID}
	require.NoError(t, db.Create(&second).Error)

	assert.NotEmpty(t, first.Token)
	assert.NotEqual(t, first.Token, second.Token)
	assert.GreaterOrEqual(t, len(first.Token), 43) // 32 random bytes, base64

	// One token per user
	dup := model.AuthToken{UserID: user.ID}
	assert.Error(t, db.Create(&dup).Error)
}

func TestImagePaths(t *testing.T) {
	path := model.RecipeImagePath("photo.jpg")
	assert.True(t, strings.HasPrefix(path, "uploads/recipe/"))
	assert.True(t, strings.HasSuffix(path, ".jpg"))
	assert.NotEqual(t, path, model.RecipeImagePath("photo.jpg"))

	profile := model.ProfileImagePath("me.png")
	assert.True(t, strings.HasPrefix(profile, "uploads/profile_image/"))
	assert.True(t, strings.HasSuffix(profile, ".png"))
}
