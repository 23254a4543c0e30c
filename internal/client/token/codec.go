// Package token decodes claims from a bearer token without network access
// and without verifying the signature. It is a local convenience decoder:
// authoritative validation always happens server-side, so a decode failure
// only means "cannot derive identity from this token locally".
package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skytrack-dev/skytrack/internal/common"
)

// Claims are the fields extracted from the payload segment of a bearer
// token. All of them are optional; callers apply defaults for missing ones.
type Claims struct {
	UserID   string `json:"userId,omitempty"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// DecodeClaims base64url-decodes the middle segment of a three-segment
// token and parses it as JSON. Any malformed input (wrong segment count,
// bad encoding, non-JSON payload) yields (nil, err) with err matching
// common.ErrInvalidToken via errors.Is. Expiry is not checked.
func DecodeClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	return claims, nil
}
