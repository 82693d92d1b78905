package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"sqlgenie/internal/models"
	"sqlgenie/internal/repositories"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	userRepo *repositories.UserRepository
}

func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
