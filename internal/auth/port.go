package auth

type AuthServicePort interface {
	Register(req RegisterRequest) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetUserByID(id uint) (*User, error)
	GetAllUsers() ([]User, error)
	UpdateUser(id uint, req UpdateUserRequest) (*User, error)
	DeactivateUser(id uint) error
}
