package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

// UserStore is the persistence surface the services need from the user
// directory.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	Update(ctx context.Context, u model.User) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	UpdateAvatar(ctx context.Context, userID string, avatarURL string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.PublicUser, error)
}

// RecoveryMarker records consumed recovery tokens.
type RecoveryMarker interface {
	Consume(ctx context.Context, tokenID string, ttl time.Duration) error
}

// Both signin failure branches return this exact error so responses cannot
// be used to enumerate accounts.
var errInvalidCredentials = apierror.Unauthorized("invalid credentials")

type AuthService struct {
	users       UserStore
	recovery    RecoveryMarker
	mailer      Mailer
	secret      []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	recoveryTTL time.Duration
	bcryptCost  int
	avatarURL   string
	frontendURL string
}

type AuthConfig struct {
	JWTSecret        string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	RecoveryTTL      time.Duration
	BcryptCost       int
	DefaultAvatarURL string
	FrontendURL      string
}

func NewAuthService(cfg AuthConfig, users UserStore, recovery RecoveryMarker, mailer Mailer) *AuthService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &AuthService{
		users:       users,
		recovery:    recovery,
		mailer:      mailer,
		secret:      []byte(cfg.JWTSecret),
		accessTTL:   cfg.AccessTTL,
		refreshTTL:  cfg.RefreshTTL,
		recoveryTTL: cfg.RecoveryTTL,
		bcryptCost:  cost,
		avatarURL:   cfg.DefaultAvatarURL,
		frontendURL: cfg.FrontendURL,
	}
}

const welcomeMailTemplate = `<h1>Welcome, {{name}}!</h1>
<p>Your account was created successfully. Start organizing your tasks today.</p>`

const recoveryMailTemplate = `<h1>Password recovery</h1>
<p>Hi {{name}}, a password reset was requested for your account.</p>
<p><a href="{{link}}">Reset your password</a></p>
<p>The link expires in {{minutes}} minutes. If you did not request this, ignore this email.</p>`

func (s *AuthService) SignUp(ctx context.Context, req model.SignUpRequest) (model.PublicUser, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	if req.Name == "" || req.LastName == "" || req.Email == "" {
		return model.PublicUser{}, apierror.BadRequest("name, last_name and email are required", "")
	}
	if len(req.Password) < 6 {
		return model.PublicUser{}, apierror.BadRequest("password must be at least 6 characters", "")
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return model.PublicUser{}, err
	}
	if exists {
		return model.PublicUser{}, apierror.Conflict("email already registered", req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return model.PublicUser{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Avatar:       s.avatarURL,
		Birthday:     req.Birthday,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index is the backstop for a concurrent signup racing past
	// the pre-check; the repository maps that violation to the same
	// conflict error.
	if err := s.users.Create(ctx, user); err != nil {
		return model.PublicUser{}, err
	}

	// Welcome mail is best effort: the account already exists.
	if err := s.mailer.Send(ctx, MailMessage{
		To:       user.Email,
		Subject:  "Welcome to TodoList",
		Template: welcomeMailTemplate,
		Vars:     map[string]string{"name": user.Name},
	}); err != nil {
		slog.Warn("welcome mail delivery failed", "error", err)
	}

	return user.Public(), nil
}

func (s *AuthService) SignIn(ctx context.Context, email string, password string) (model.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return model.AuthResult{}, errInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return model.AuthResult{}, errInvalidCredentials
	}

	pair, err := s.issueTokenPair(user.ID, user.Email)
	if err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{User: user.Public(), TokenPair: pair}, nil
}

// Refresh mints a fresh access/refresh pair from the claims of a valid
// refresh token. It stays stateless and does not re-check the user; a
// deleted account is still rejected on the next request, where
// ValidateAccessToken re-fetches it.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.VerifyToken(refreshToken, model.TokenKindRefresh)
	if err != nil {
		return model.TokenPair{}, err
	}

	return s.issueTokenPair(claims.UserID, claims.Email)
}

// ValidateAccessToken verifies the token and re-fetches the user so deleted
// accounts are rejected at request time.
func (s *AuthService) ValidateAccessToken(ctx context.Context, accessToken string) (model.PublicUser, error) {
	claims, err := s.VerifyToken(accessToken, model.TokenKindAccess)
	if err != nil {
		return model.PublicUser{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return model.PublicUser{}, apierror.Unauthorized("invalid or expired token")
	}

	return user.Public(), nil
}

func (s *AuthService) RequestPasswordRecovery(ctx context.Context, email string) (model.MessageResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return model.MessageResponse{}, err
	}

	token, err := s.signToken(user.ID, user.Email, model.TokenKindRecovery, s.recoveryTTL)
	if err != nil {
		return model.MessageResponse{}, err
	}

	link := strings.TrimRight(s.frontendURL, "/") + "/reset-password?token=" + token
	minutes := int(s.recoveryTTL.Minutes())

	if err := s.mailer.Send(ctx, MailMessage{
		To:       user.Email,
		Subject:  "Password recovery",
		Template: recoveryMailTemplate,
		Vars: map[string]string{
			"name":    user.Name,
			"link":    link,
			"minutes": strconv.Itoa(minutes),
		},
	}); err != nil {
		slog.Error("recovery mail delivery failed", "error", err)
		return model.MessageResponse{}, apierror.Unavailable("could not deliver recovery email")
	}

	return model.MessageResponse{Message: "recovery email sent"}, nil
}

func (s *AuthService) RecoverPassword(ctx context.Context, token string, newPassword string) (model.MessageResponse, error) {
	if len(newPassword) < 6 {
		return model.MessageResponse{}, apierror.BadRequest("password must be at least 6 characters", "")
	}

	claims, err := s.VerifyToken(token, model.TokenKindRecovery)
	if err != nil {
		return model.MessageResponse{}, apierror.BadRequest("invalid or expired recovery token", "")
	}

	// Each recovery token resets a password at most once.
	remaining := time.Until(claims.ExpiresAt)
	if err := s.recovery.Consume(ctx, claims.TokenID, remaining); err != nil {
		if err == model.ErrTokenAlreadyUsed {
			return model.MessageResponse{}, apierror.BadRequest("recovery token already used", "")
		}
		return model.MessageResponse{}, apierror.Unavailable("could not verify recovery token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return model.MessageResponse{}, err
	}

	if err := s.users.UpdatePassword(ctx, claims.UserID, string(hash)); err != nil {
		return model.MessageResponse{}, err
	}

	return model.MessageResponse{Message: "password updated successfully"}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, oldPassword string, newPassword string) (model.MessageResponse, error) {
	if len(newPassword) < 6 {
		return model.MessageResponse{}, apierror.BadRequest("password must be at least 6 characters", "")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.MessageResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return model.MessageResponse{}, apierror.BadRequest("old password does not match", "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return model.MessageResponse{}, err
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return model.MessageResponse{}, err
	}

	return model.MessageResponse{Message: "password updated successfully"}, nil
}

func (s *AuthService) issueTokenPair(userID string, email string) (model.TokenPair, error) {
	accessToken, err := s.signToken(userID, email, model.TokenKindAccess, s.accessTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := s.signToken(userID, email, model.TokenKindRefresh, s.refreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *AuthService) signToken(userID string, email string, kind string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"typ":   kind,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})
	return token.SignedString(s.secret)
}

// VerifyToken checks signature and expiry, and rejects tokens minted for a
// different purpose than expectedKind.
func (s *AuthService) VerifyToken(tokenString string, expectedKind string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.Unauthorized("invalid token signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierror.Unauthorized("invalid token")
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.Unauthorized("invalid token claims")
	}

	kind, _ := claimsMap["typ"].(string)
	if kind != expectedKind {
		return nil, apierror.Unauthorized("invalid token type")
	}

	claims := &model.AuthClaims{Kind: kind}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, apierror.Unauthorized("invalid token subject")
	}

	if exp, err := claimsMap.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}

