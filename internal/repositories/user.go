package repositories

import (
	"errors"

	"evmarket/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
	ErrPhoneTaken   = errors.New("phone number already taken")
)

// UserRepository defines user-related database operations.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	Update(user *models.User) error
	IncrementTokenVersion(userID uint) error

	// CreateWithWallet creates the user and their zero-balance wallet in
	// one transaction, so no user ever exists without a wallet.
	CreateWithWallet(user *models.User) error
}
