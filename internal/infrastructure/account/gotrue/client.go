package gotrue

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wizix/pickem-pool/internal/domain/user"
	"github.com/wizix/pickem-pool/internal/usecase"
)

// Verifier validates GoTrue-issued access tokens locally with the project's
// shared HS256 secret, the same check the auth service itself performs.
type Verifier struct {
	secret   []byte
	audience string
	parser   *jwt.Parser
}

// NewVerifier builds a Verifier. audience is optional; GoTrue issues user
// tokens with aud "authenticated".
func NewVerifier(secret, audience string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if audience = strings.TrimSpace(audience); audience != "" {
		options = append(options, jwt.WithAudience(audience))
	}

	return &Verifier{
		secret:   []byte(secret),
		audience: audience,
		parser:   jwt.NewParser(options...),
	}, nil
}

type accessTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (v *Verifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	claims := &accessTokenClaims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return user.Principal{}, fmt.Errorf("%w: invalid token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return user.Principal{}, fmt.Errorf("%w: token has no subject", usecase.ErrUnauthorized)
	}

	return user.Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}
