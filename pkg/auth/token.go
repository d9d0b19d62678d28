package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tillpointhq/tillpoint-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// AccessTokenClaims are the claims the hosted auth provider puts in its
// access tokens. The subject is the account id; the tokens are signed with
// the shared project secret.
type AccessTokenClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the token subject.
func (c *AccessTokenClaims) UserID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}

// ParseAccessToken validates a provider-issued JWT and returns typed claims.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	return claims, nil
}
