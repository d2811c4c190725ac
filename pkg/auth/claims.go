package auth

import (
	"github.com/angelmondragon/articles-api/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	MemberID int64
	Username string
	Role     enums.MemberRole
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	MemberID int64            `json:"member_id"`
	Username string           `json:"username"`
	Role     enums.MemberRole `json:"role"`
	jwt.RegisteredClaims
}
