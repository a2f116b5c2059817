package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Principal is the identity provider's view of the caller.
type Principal struct {
	ID           string
	Email        string
	UsernameHint string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

type identityClaims struct {
	Email        string `json:"email"`
	UserMetadata struct {
		Username string `json:"username"`
	} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 access tokens signed with the identity
// provider's project secret.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(ctx context.Context, token string) (*Principal, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: verifier has no secret", ErrInvalidToken)
	}

	var claims identityClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Principal{
		ID:           claims.Subject,
		Email:        claims.Email,
		UsernameHint: usernameHint(claims.UserMetadata.Username, claims.Email),
	}, nil
}

// usernameHint prefers the signup username, then the email local part.
func usernameHint(username, email string) string {
	if u := strings.TrimSpace(username); u != "" {
		return u
	}
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return local
	}
	return "user"
}
