package service

import (
	"context"
	"fmt"

	"github.com/Euroteck-developer/Reminder-App/repository"
	"github.com/Euroteck-developer/Reminder-App/types"
)

type UserService interface {
	// Assignable lists the active users the actor may put on a task.
	Assignable(ctx context.Context, actor types.Actor) ([]types.User, error)
	Profile(ctx context.Context, actor types.Actor) (*types.User, error)
}

type userService struct {
	repo repository.UserRepo
}

func NewUserService(repo repository.UserRepo) UserService {
	return &userService{
		repo: repo,
	}
}

func (s *userService) Assignable(ctx context.Context, actor types.Actor) ([]types.User, error) {
	users, err := s.repo.ListActiveUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return FilterAssignable(actor, users), nil
}

func (s *userService) Profile(ctx context.Context, actor types.Actor) (*types.User, error) {
	u, err := s.repo.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, orNotFound(err, "user")
	}
	return u, nil
}
