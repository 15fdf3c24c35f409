package response

import (
	"time"

	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type RegisterResponse struct {
	UserID uuid.UUID `json:"userId"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromAuthorizedUserView(rm *queries.AuthorizedUserView) *UserResponse {
	return &UserResponse{
		ID:        rm.ID,
		Username:  rm.Username,
		Email:     rm.Email,
		Role:      rm.Role,
		CreatedAt: rm.CreatedAt,
	}
}
