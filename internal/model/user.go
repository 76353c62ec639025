package model

import "time"

type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Avatar       string     `json:"avatar"`
	Birthday     *time.Time `json:"birthday,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PublicUser is the shape exposed to clients and attached to requests as the
// authenticated principal. It never carries the password digest.
type PublicUser struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Avatar    string     `json:"avatar"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		LastName:  u.LastName,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Birthday:  u.Birthday,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Token kinds embedded in the "typ" claim. A token is only accepted for the
// purpose it was minted for.
const (
	TokenKindAccess   = "access"
	TokenKindRefresh  = "refresh"
	TokenKindRecovery = "recovery"
)

type AuthClaims struct {
	UserID  string `json:"sub"`
	Email   string `json:"email"`
	Kind    string `json:"typ"`
	TokenID string `json:"jti"`
	// ExpiresAt is the verified expiry carried over from the signed token.
	ExpiresAt time.Time `json:"-"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthResult struct {
	User PublicUser `json:"user"`
	TokenPair
}
