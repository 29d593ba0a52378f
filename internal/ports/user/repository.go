package user

import (
	"context"

	"github.com/gofrs/uuid"

	"welbex/internal/core/user"
)

// UserRepository پورت برای ذخیره‌سازی و بازیابی کاربران
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// DTOs for the use cases.
type UserDTO struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Name   *string `json:"name"`
	Gender *string `json:"gender"`
}

// AuthorDTO is the public projection of a user attached to posts and comments.
type AuthorDTO struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Email string  `json:"email"`
}

type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expiresAt"`
	User      *UserDTO `json:"user"`
}

func ToUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:     u.ID.String(),
		Email:  u.Email,
		Name:   u.Name,
		Gender: u.Gender,
	}
}

// ToAuthorDTO returns nil when the author row was not joined.
func ToAuthorDTO(u *user.User) *AuthorDTO {
	if u == nil || u.ID == uuid.Nil {
		return nil
	}
	return &AuthorDTO{ID: u.ID.String(), Name: u.Name, Email: u.Email}
}
