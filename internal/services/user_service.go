package services

import (
	"context"
	"errors"
	"fmt"

	"peerlend/internal/felt"
	"peerlend/internal/models"
	"peerlend/internal/repository"
	"peerlend/internal/utils"
)

// UserService handles wallet-user onboarding and profiles
type UserService struct {
	repo *repository.Repository
}

// NewUserService creates a new UserService
func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// EnsureUser returns the user for a wallet address, creating it with a
// generated nickname on first connect.
func (s *UserService) EnsureUser(ctx context.Context, walletAddress string) (*models.User, error) {
	address, err := felt.Normalize(walletAddress)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByAddress(ctx, address)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	nickname, err := utils.GenerateNickname()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nickname: %w", err)
	}

	user = &models.User{
		WalletAddress: address,
		Nickname:      nickname,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by wallet address
func (s *UserService) GetUser(ctx context.Context, walletAddress string) (*models.User, error) {
	address, err := felt.Normalize(walletAddress)
	if err != nil {
		return nil, err
	}
	return s.repo.GetUserByAddress(ctx, address)
}

// ListUsers retrieves all users
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}

// CompleteProfile fills in the optional profile fields from the dashboard's
// complete-profile form.
func (s *UserService) CompleteProfile(ctx context.Context, walletAddress, name, email string) (*models.User, error) {
	user, err := s.GetUser(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Email = email
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
