package members

import (
	"time"

	"github.com/angelmondragon/articles-api/pkg/db/models"
	"github.com/angelmondragon/articles-api/pkg/enums"
)

// MemberDTO is the public member shape. The password hash never leaves the service.
type MemberDTO struct {
	ID          int64            `json:"id"`
	Username    string           `json:"username"`
	Email       *string          `json:"email,omitempty"`
	Role        enums.MemberRole `json:"role"`
	LastLoginAt *time.Time       `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// FromModel maps a member row into its DTO.
func FromModel(m *models.Member) MemberDTO {
	return MemberDTO{
		ID:          m.ID,
		Username:    m.Username,
		Email:       m.Email,
		Role:        m.Role,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
	}
}

// LoginRequest carries sign-in credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

// JoinRequest carries the sign-up form.
type JoinRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Password string  `json:"password" validate:"required,min=4,max=128"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

// RefreshRequest carries the refresh token for rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// TokenPair is a freshly minted access token with its refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Member MemberDTO `json:"member"`
	TokenPair
}

// MemberData nests a member under the "member" key of the envelope data.
type MemberData struct {
	Member MemberDTO `json:"member"`
}
