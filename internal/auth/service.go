package auth

import (
	"errors"
	"strings"

	"labvault-api/internal/util"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type AuthService struct {
	DB *gorm.DB
}

func (s *AuthService) Register(req RegisterRequest) (*User, error) {
	hashed, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Password:    hashed,
		Role:        "researcher",
		Institution: req.Institution,
		Keywords:    pq.StringArray(req.Keywords),
		IsActive:    true,
	}

	if err := s.DB.Create(&user).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, errors.New("an account with this email already exists")
		}
		return nil, err
	}

	return &user, nil
}

func (s *AuthService) GetUserByEmail(email string) (*User, error) {
	var user User
	result := s.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (s *AuthService) GetUserByID(id uint) (*User, error) {
	var user User
	result := s.DB.Where("id = ?", id).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (s *AuthService) GetAllUsers() ([]User, error) {
	var users []User
	result := s.DB.Where("is_active = ?", true).Order("lastname ASC").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (s *AuthService) UpdateUser(id uint, req UpdateUserRequest) (*User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["firstname"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["lastname"] = *req.LastName
	}
	if req.Institution != nil {
		updates["institution"] = *req.Institution
	}
	if req.Keywords != nil {
		updates["keywords"] = pq.StringArray(req.Keywords)
	}

	if len(updates) > 0 {
		if err := s.DB.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetUserByID(id)
}

func (s *AuthService) DeactivateUser(id uint) error {
	result := s.DB.Model(&User{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
