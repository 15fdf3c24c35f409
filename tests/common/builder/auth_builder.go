//go:build unit || e2e

package builder

import (
	reqdto "tablebook/internal/handler/dto/request"
)

type AuthBuilder struct {
	Username string
	Email    string
	Password string
}

func NewAuthBuilder() *AuthBuilder {
	return &AuthBuilder{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}
}

func (a *AuthBuilder) BuildLoginDTO() reqdto.LoginRequest {
	return reqdto.LoginRequest{
		Email:    a.Email,
		Password: a.Password,
	}
}

func (a *AuthBuilder) BuildRegisterDTO() reqdto.RegisterRequest {
	return reqdto.RegisterRequest{
		Username: a.Username,
		Email:    a.Email,
		Password: a.Password,
	}
}
