// Package tokenx inspects bearer tokens issued by the backend.
//
// The client never holds the signing key, so tokens are decoded without
// signature verification. This is a structural check only: it rejects strings
// that are not JWTs and extracts the username claim the client needs to
// address its own profile.
package tokenx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrNoUsername     = errors.New("token has no username claim")
)

// Claims is the payload the backend signs into every token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

var parser = jwt.NewParser()

// Inspect decodes tokenString without verifying its signature.
func Inspect(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.Username == "" {
		return nil, ErrNoUsername
	}
	return claims, nil
}

// Username returns the username claim of tokenString.
func Username(tokenString string) (string, error) {
	c, err := Inspect(tokenString)
	if err != nil {
		return "", err
	}
	return c.Username, nil
}
