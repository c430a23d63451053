package dto

import (
	"time"

	"urlshortener/internal/domain/models"
)

// Request
type (
	RegisterRequest struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	RefreshRequest struct {
		Refresh string `json:"refresh"`
	}
)

// Response
type (
	UserResponse struct {
		ID        int64     `json:"id"`
		Username  string    `json:"username"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	// UserProfile - вложенный user в ответе логина
	UserProfile struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}

	LoginResponse struct {
		Access  string      `json:"access"`
		Refresh string      `json:"refresh"`
		User    UserProfile `json:"user"`
	}

	RefreshResponse struct {
		Access string `json:"access"`
	}
)

// Domain → Response
func UserResponseFromDomain(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func LoginResponseFromDomain(u models.User, pair models.TokenPair) LoginResponse {
	return LoginResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User: UserProfile{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
		},
	}
}
