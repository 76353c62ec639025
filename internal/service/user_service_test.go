package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-task-manager/internal/model"
)

func TestUserService_Update(t *testing.T) {
	existing := model.User{
		ID:           "user-1",
		Name:         "Ana",
		LastName:     "Lopez",
		Email:        "ana@example.com",
		PasswordHash: "a-hash",
	}

	t.Run("updates only provided fields and keeps the password hash", func(t *testing.T) {
		users := new(MockUserStore)
		svc := NewUserService(users)

		users.On("FindByID", mock.Anything, "user-1").Return(existing, nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			return u.Name == "Anabel" && u.LastName == "Lopez" && u.PasswordHash == "a-hash"
		})).Return(nil)

		name := "Anabel"
		got, err := svc.Update(context.Background(), "user-1", model.UpdateUserRequest{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "Anabel", got.Name)
		assert.Equal(t, "ana@example.com", got.Email)
		users.AssertExpectations(t)
	})

	t.Run("rejects blanking out a required field", func(t *testing.T) {
		users := new(MockUserStore)
		svc := NewUserService(users)

		users.On("FindByID", mock.Anything, "user-1").Return(existing, nil)

		empty := "   "
		_, err := svc.Update(context.Background(), "user-1", model.UpdateUserRequest{Email: &empty})

		require.Error(t, err)
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUserService_SetAvatar(t *testing.T) {
	t.Run("persists and returns the refreshed profile", func(t *testing.T) {
		users := new(MockUserStore)
		svc := NewUserService(users)

		updated := model.User{ID: "user-1", Name: "Ana", LastName: "Lopez", Email: "ana@example.com", Avatar: "https://cdn.example.com/new.png"}
		users.On("UpdateAvatar", mock.Anything, "user-1", "https://cdn.example.com/new.png").Return(nil)
		users.On("FindByID", mock.Anything, "user-1").Return(updated, nil)

		got, err := svc.SetAvatar(context.Background(), "user-1", "https://cdn.example.com/new.png")

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/new.png", got.Avatar)
	})

	t.Run("rejects empty URLs", func(t *testing.T) {
		users := new(MockUserStore)
		svc := NewUserService(users)

		_, err := svc.SetAvatar(context.Background(), "user-1", "  ")

		require.Error(t, err)
		users.AssertNotCalled(t, "UpdateAvatar", mock.Anything, mock.Anything, mock.Anything)
	})
}
