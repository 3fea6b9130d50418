package model

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrEmailRequired is returned when a user is created without an email address
var ErrEmailRequired = errors.New("email address is required")

// User represents an account. Email is the identity field; there is no
// separate username.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"type:varchar(255)"`
	Password     string    `json:"-" gorm:"type:varchar(255)"`
	IsActive     bool      `json:"-" gorm:"default:true"`
	IsStaff      bool      `json:"-" gorm:"default:false"`
	IsSuperuser  bool      `json:"-" gorm:"default:false"`
	ProfileImage *string   `json:"profile_image"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// NormalizeEmail lowercases the domain part of an email address. The
// local part is preserved verbatim.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// HashPassword returns the bcrypt hash of a plaintext password
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// CreateUser creates a user with a normalized email and a hashed
// password. The plaintext is never stored.
func CreateUser(db *gorm.DB, email, password, name string) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmailRequired
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := User{
		Email:    NormalizeEmail(email),
		Name:     name,
		Password: hash,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateSuperuser creates a user and grants the staff and superuser flags
func CreateSuperuser(db *gorm.DB, email, password string) (*User, error) {
	user, err := CreateUser(db, email, password, "")
	if err != nil {
		return nil, err
	}
	if err := db.Model(user).Updates(map[string]interface{}{
		"is_staff":     true,
		"is_superuser": true,
	}).Error; err != nil {
		return nil, err
	}
	user.IsStaff = true
	user.IsSuperuser = true
	return user, nil
}
