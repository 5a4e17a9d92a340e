package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/harborline/slopchest-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   string
	UserName string
	Role     enums.UserRole
	JTI      string
}

// AccessTokenClaims is the wire shape of the signed token.
type AccessTokenClaims struct {
	UserID   string         `json:"uid"`
	UserName string         `json:"name"`
	Role     enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
