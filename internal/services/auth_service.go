package services

import (
	"context"

	"peerlend/internal/auth"
	"peerlend/internal/models"
)

// AuthService starts wallet sessions. Connecting a wallet is the only login:
// first connect creates the user, every connect issues a fresh session token.
type AuthService struct {
	users *UserService
}

// NewAuthService creates a new AuthService
func NewAuthService(users *UserService) *AuthService {
	return &AuthService{users: users}
}

// SessionResponse is the payload returned on a successful wallet connect.
type SessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Connect ensures the wallet has a user record and issues a session token
// bound to its normalized address.
func (s *AuthService) Connect(ctx context.Context, walletAddress string) (*SessionResponse, error) {
	user, err := s.users.EnsureUser(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(user.ID, user.WalletAddress)
	if err != nil {
		return nil, err
	}

	return &SessionResponse{Token: token, User: user}, nil
}
