package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/justbecho/justbecho-backend/pkg/db/models"
	"github.com/justbecho/justbecho-backend/pkg/enums"
	"github.com/justbecho/justbecho-backend/pkg/types"
)

// UserDTO is the public shape of a user account.
type UserDTO struct {
	ID               uuid.UUID      `json:"id"`
	Email            string         `json:"email"`
	Name             string         `json:"name"`
	Phone            *string        `json:"phone,omitempty"`
	Role             enums.UserRole `json:"role"`
	ProfileCompleted bool           `json:"profile_completed"`
	Address          *types.Address `json:"address,omitempty"`
	LastLoginAt      *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// FromModel maps the persisted user to its API shape.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		Phone:            user.Phone,
		Role:             user.Role,
		ProfileCompleted: user.ProfileCompleted,
		Address:          user.Address,
		LastLoginAt:      user.LastLoginAt,
		CreatedAt:        user.CreatedAt,
	}
}
