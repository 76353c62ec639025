package service

import (
	"context"
	"strings"
	"time"

	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(ctx context.Context, id string) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *UserService) List(ctx context.Context) ([]model.PublicUser, error) {
	return s.users.List(ctx)
}

// Update applies a partial profile update. The password is never touched
// here; it only changes through the auth flows.
func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.Birthday != nil {
		user.Birthday = req.Birthday
	}

	if user.Name == "" || user.LastName == "" || user.Email == "" {
		return model.PublicUser{}, apierror.BadRequest("name, last_name and email cannot be empty", "")
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return model.PublicUser{}, err
	}

	return user.Public(), nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func (s *UserService) SetAvatar(ctx context.Context, id string, avatarURL string) (model.PublicUser, error) {
	if strings.TrimSpace(avatarURL) == "" {
		return model.PublicUser{}, apierror.BadRequest("avatar URL cannot be empty", "")
	}

	if err := s.users.UpdateAvatar(ctx, id, avatarURL); err != nil {
		return model.PublicUser{}, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}
