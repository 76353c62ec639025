package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-task-manager/internal/model"
)

func newTestAuthService(users UserStore, recovery RecoveryMarker, mailer Mailer) *AuthService {
	return NewAuthService(AuthConfig{
		JWTSecret:        "test-secret",
		AccessTTL:        time.Hour,
		RefreshTTL:       24 * time.Hour,
		RecoveryTTL:      15 * time.Minute,
		BcryptCost:       bcrypt.MinCost,
		DefaultAvatarURL: "https://cdn.example.com/default.png",
		FrontendURL:      "https://app.example.com",
	}, users, recovery, mailer)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_SignUp(t *testing.T) {
	t.Run("creates user with hashed password and default avatar", func(t *testing.T) {
		users := new(MockUserStore)
		mailer := &recordingMailer{}
		svc := newTestAuthService(users, new(MockRecoveryMarker), mailer)

		users.On("ExistsByEmail", mock.Anything, "ana@example.com").Return(false, nil)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			return u.Email == "ana@example.com" &&
				u.PasswordHash != "secret123" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")) == nil
		})).Return(nil)

		got, err := svc.SignUp(context.Background(), model.SignUpRequest{
			Name:     "Ana",
			LastName: "Lopez",
			Email:    "ana@example.com",
			Password: "secret123",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, "Ana", got.Name)
		assert.Equal(t, "https://cdn.example.com/default.png", got.Avatar)

		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "ana@example.com", mailer.sent[0].To)
		assert.Equal(t, "Welcome to TodoList", mailer.sent[0].Subject)

		users.AssertExpectations(t)
	})

	t.Run("rejects duplicate email without creating", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, new(MockRecoveryMarker), &recordingMailer{})

		users.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

		_, err := svc.SignUp(context.Background(), model.SignUpRequest{
			Name:     "Ana",
			LastName: "Lopez",
			Email:    "taken@example.com",
			Password: "secret123",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc := newTestAuthService(new(MockUserStore), new(MockRecoveryMarker), &recordingMailer{})

		_, err := svc.SignUp(context.Background(), model.SignUpRequest{
			Name:     "Ana",
			LastName: "Lopez",
			Email:    "ana@example.com",
			Password: "short",
		})

		assert.Error(t, err)
	})

	t.Run("succeeds even when welcome mail fails", func(t *testing.T) {
		users := new(MockUserStore)
		mailer := &recordingMailer{err: assert.AnError}
		svc := newTestAuthService(users, new(MockRecoveryMarker), mailer)

		users.On("ExistsByEmail", mock.Anything, "ana@example.com").Return(false, nil)
		users.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.SignUp(context.Background(), model.SignUpRequest{
			Name:     "Ana",
			LastName: "Lopez",
			Email:    "ana@example.com",
			Password: "secret123",
		})

		assert.NoError(t, err)
	})
}

func TestAuthService_SignIn(t *testing.T) {
	user := model.User{
		ID:           "user-1",
		Name:         "Ana",
		LastName:     "Lopez",
		Email:        "ana@example.com",
		PasswordHash: "",
	}

	t.Run("returns user and token pair on valid credentials", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, new(MockRecoveryMarker), &recordingMailer{})

		u := user
		u.PasswordHash = hashPassword(t, "secret123")
		users.On("FindByEmail", mock.Anything, "ana@example.com").Return(u, nil)

		got, err := svc.SignIn(context.Background(), "ana@example.com", "secret123")

		require.NoError(t, err)
		assert.Equal(t, "user-1", got.User.ID)
		assert.NotEmpty(t, got.AccessToken)
		assert.NotEmpty(t, got.RefreshToken)
		assert.Equal(t, "Bearer", got.TokenType)
		assert.Equal(t, int64(3600), got.ExpiresIn)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, new(MockRecoveryMarker), &recordingMailer{})

		u := user
		u.PasswordHash = hashPassword(t, "secret123")
		users.On("FindByEmail", mock.Anything, "ana@example.com").Return(u, nil)
		users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(model.User{}, model.ErrUserNotFound)

		_, unknownErr := svc.SignIn(context.Background(), "ghost@example.com", "whatever")
		_, wrongPassErr := svc.SignIn(context.Background(), "ana@example.com", "not-the-password")

		require.Error(t, unknownErr)
		require.Error(t, wrongPassErr)
		assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
	})
}

func TestAuthService_Refresh(t *testing.T) {
	t.Run("mints new pair from a valid refresh token", func(t *testing.T) {
		svc := newTestAuthService(new(MockUserStore), new(MockRecoveryMarker), &recordingMailer{})

		pair, err := svc.issueTokenPair("user-1", "ana@example.com")
		require.NoError(t, err)

		got, err := svc.Refresh(context.Background(), pair.RefreshToken)

		require.NoError(t, err)
		assert.NotEmpty(t, got.AccessToken)
		assert.NotEmpty(t, got.RefreshToken)

		claims, err := svc.VerifyToken(got.AccessToken, model.TokenKindAccess)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "ana@example.com", claims.Email)
	})

	t.Run("rejects an access token presented as refresh", func(t *testing.T) {
		svc := newTestAuthService(new(MockUserStore), new(MockRecoveryMarker), &recordingMailer{})

		pair, err := svc.issueTokenPair("user-1", "ana@example.com")
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), pair.AccessToken)

		assert.Error(t, err)
	})

	t.Run("rejects garbage tokens", func(t *testing.T) {
		svc := newTestAuthService(new(MockUserStore), new(MockRecoveryMarker), &recordingMailer{})

		_, err := svc.Refresh(context.Background(), "not.a.jwt")

		assert.Error(t, err)
	})
}

func TestAuthService_VerifyToken(t *testing.T) {
	svc := newTestAuthService(new(MockUserStore), new(MockRecoveryMarker), &recordingMailer{})

	t.Run("round-trips claims", func(t *testing.T) {
		token, err := svc.signToken("user-1", "ana@example.com", model.TokenKindAccess, time.Hour)
		require.NoError(t, err)

		claims, err := svc.VerifyToken(token, model.TokenKindAccess)

		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "ana@example.com", claims.Email)
		assert.Equal(t, model.TokenKindAccess, claims.Kind)
		assert.NotEmpty(t, claims.TokenID)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		token, err := svc.signToken("user-1", "ana@example.com", model.TokenKindAccess, -time.Minute)
		require.NoError(t, err)

		_, err = svc.VerifyToken(token, model.TokenKindAccess)

		assert.Error(t, err)
	})

	t.Run("rejects tokens signed with a different secret", func(t *testing.T) {
		other := newTestAuthService(new(MockUserStore), new(MockRecoveryMarker), &recordingMailer{})
		other.secret = []byte("another-secret")

		token, err := other.signToken("user-1", "ana@example.com", model.TokenKindAccess, time.Hour)
		require.NoError(t, err)

		_, err = svc.VerifyToken(token, model.TokenKindAccess)

		assert.Error(t, err)
	})

	t.Run("rejects kind mismatch in every direction", func(t *testing.T) {
		kinds := []string{model.TokenKindAccess, model.TokenKindRefresh, model.TokenKindRecovery}
		for _, minted := range kinds {
			token, err := svc.signToken("user-1", "ana@example.com", minted, time.Hour)
			require.NoError(t, err)

			for _, expected := range kinds {
				_, err := svc.VerifyToken(token, expected)
				if minted == expected {
					assert.NoError(t, err)
				} else {
					assert.Error(t, err, "token of kind %s accepted as %s", minted, expected)
				}
			}
		}
	})
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	t.Run("resolves the live user behind the token", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, new(MockRecoveryMarker), &recordingMailer{})

		users.On("FindByID", mock.Anything, "user-1").Return(model.User{ID: "user-1", Email: "ana@example.com"}, nil)

		token, err := svc.signToken("user-1", "ana@example.com", model.TokenKindAccess, time.Hour)
		require.NoError(t, err)

		got, err := svc.ValidateAccessToken(context.Background(), token)

		require.NoError(t, err)
		assert.Equal(t, "user-1", got.ID)
	})

	t.Run("rejects tokens of deleted users", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, new(MockRecoveryMarker), &recordingMailer{})

		users.On("FindByID", mock.Anything, "user-1").Return(model.User{}, model.ErrUserNotFound)

		token, err := svc.signToken("user-1", "ana@example.com", model.TokenKindAccess, time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(context.Background(), token)

		assert.Error(t, err)
	})
}

func TestAuthService_PasswordRecovery(t *testing.T) {
	user := model.User{ID: "user-1", Name: "Ana", Email: "ana@example.com"}

	t.Run("request sends a mail with a reset link", func(t *testing.T) {
		users := new(MockUserStore)
		mailer := &recordingMailer{}
		svc := newTestAuthService(users, new(MockRecoveryMarker), mailer)

		users.On("FindByEmail", mock.Anything, "ana@example.com").Return(user, nil)

		_, err := svc.RequestPasswordRecovery(context.Background(), "ana@example.com")

		require.NoError(t, err)
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "ana@example.com", mailer.sent[0].To)
		assert.Contains(t, mailer.sent[0].Vars["link"], "https://app.example.com/reset-password?token=")
		assert.Equal(t, "15", mailer.sent[0].Vars["minutes"])
	})

	t.Run("recover updates the password once", func(t *testing.T) {
		users := new(MockUserStore)
		recovery := new(MockRecoveryMarker)
		svc := newTestAuthService(users, recovery, &recordingMailer{})

		token, err := svc.signToken("user-1", "ana@example.com", model.TokenKindRecovery, 15*time.Minute)
		require.NoError(t, err)

		recovery.On("Consume", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil)
		users.On("UpdatePassword", mock.Anything, "user-1", mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("brand-new-pass")) == nil
		})).Return(nil)

		got, err := svc.RecoverPassword(context.Background(), token, "brand-new-pass")

		require.NoError(t, err)
		assert.Equal(t, "password updated successfully", got.Message)
		users.AssertExpectations(t)
	})

	t.Run("recover rejects an already-used token", func(t *testing.T) {
		users := new(MockUserStore)
		recovery := new(MockRecoveryMarker)
		svc := newTestAuthService(users, recovery, &recordingMailer{})

		token, err := svc.signToken("user-1", "ana@example.com", model.TokenKindRecovery, 15*time.Minute)
		require.NoError(t, err)

		recovery.On("Consume", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(model.ErrTokenAlreadyUsed)

		_, err = svc.RecoverPassword(context.Background(), token, "brand-new-pass")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already used")
		users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("recover rejects access tokens", func(t *testing.T) {
		svc := newTestAuthService(new(MockUserStore), new(MockRecoveryMarker), &recordingMailer{})

		token, err := svc.signToken("user-1", "ana@example.com", model.TokenKindAccess, time.Hour)
		require.NoError(t, err)

		_, err = svc.RecoverPassword(context.Background(), token, "brand-new-pass")

		assert.Error(t, err)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Run("verifies the old password before updating", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, new(MockRecoveryMarker), &recordingMailer{})

		users.On("FindByID", mock.Anything, "user-1").Return(model.User{
			ID:           "user-1",
			PasswordHash: hashPassword(t, "old-pass"),
		}, nil)
		users.On("UpdatePassword", mock.Anything, "user-1", mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-pass")) == nil
		})).Return(nil)

		_, err := svc.ChangePassword(context.Background(), "user-1", "old-pass", "new-pass")

		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("rejects wrong old password", func(t *testing.T) {
		users := new(MockUserStore)
		svc := newTestAuthService(users, new(MockRecoveryMarker), &recordingMailer{})

		users.On("FindByID", mock.Anything, "user-1").Return(model.User{
			ID:           "user-1",
			PasswordHash: hashPassword(t, "old-pass"),
		}, nil)

		_, err := svc.ChangePassword(context.Background(), "user-1", "wrong", "new-pass")

		require.Error(t, err)
		users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}
