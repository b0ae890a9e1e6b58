package types

import "github.com/google/uuid"

// TokenClaims holds the identity carried by a verified JWT.
type TokenClaims struct {
	UserID uuid.UUID
}
