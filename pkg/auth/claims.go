package auth

import (
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AccountID   int64
	Username    string
	DisplayName string
	Role        enums.Role
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	AccountID   int64      `json:"account_id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Role        enums.Role `json:"role"`
	jwt.RegisteredClaims
}
