package auth

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName   string         `gorm:"size:100;not null;column:firstname" json:"firstname"`
	LastName    string         `gorm:"size:100;not null;column:lastname" json:"lastname"`
	Email       string         `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Role        string         `gorm:"size:50" json:"role"`
	Institution string         `gorm:"size:255" json:"institution"`
	Keywords    pq.StringArray `gorm:"type:text[];column:keywords" json:"keywords"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type RegisterRequest struct {
	FirstName   string   `json:"firstname" binding:"required"`
	LastName    string   `json:"lastname" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=8"`
	Institution string   `json:"institution"`
	Keywords    []string `json:"keywords"`
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

type LoginResponse struct {
	ID          uint   `json:"id"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Institution string `json:"institution"`
}

type UpdateUserRequest struct {
	FirstName   *string  `json:"firstname"`
	LastName    *string  `json:"lastname"`
	Institution *string  `json:"institution"`
	Keywords    []string `json:"keywords"`
}
