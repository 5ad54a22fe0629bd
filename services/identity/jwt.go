package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"garagedesk/models"

	"github.com/golang-jwt/jwt"
)

// JWTProvider is an HS256 identity backend for local development and tests.
// Its directory only knows users that have presented a valid token.
type JWTProvider struct {
	secret []byte
	known  sync.Map // uid -> models.Identity
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

// IssueToken creates a signed token for uid and registers the user.
func (p *JWTProvider) IssueToken(id models.Identity, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   id.UID,
		"email": id.Email,
		"name":  id.DisplayName,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	p.known.Store(id.UID, id)
	return signed, nil
}

func (p *JWTProvider) VerifyToken(_ context.Context, tokenString string) (*models.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	id := models.Identity{UID: sub}
	id.Email, _ = claims["email"].(string)
	id.DisplayName, _ = claims["name"].(string)
	p.known.Store(sub, id)
	return &id, nil
}

func (p *JWTProvider) LookupUser(_ context.Context, uid string) (*models.Identity, error) {
	v, ok := p.known.Load(uid)
	if !ok {
		return nil, ErrUserNotFound
	}
	id := v.(models.Identity)
	return &id, nil
}
