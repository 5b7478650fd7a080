package auth

import (
	"context"
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	models "github.com/sushilldhakal/tourmarket/internal"
	"github.com/sushilldhakal/tourmarket/internal/clock"
	"time"
)

var (
	ErrInvalidToken = fmt.Errorf("%w: invalid token", models.ErrUnauthorized)
	ErrRevokedToken = fmt.Errorf("%w: token has been revoked", models.ErrUnauthorized)
)

type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Revoker remembers logged out tokens until they would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type Authenticator struct {
	secret  []byte
	issuer  string
	ttl     time.Duration
	revoker Revoker
	clock   clock.Clock
}

func NewAuthenticator(secret, issuer string, ttl time.Duration, revoker Revoker, c clock.Clock) *Authenticator {
	return &Authenticator{
		secret:  []byte(secret),
		issuer:  issuer,
		ttl:     ttl,
		revoker: revoker,
		clock:   c,
	}
}

func (a *Authenticator) Issue(p models.Principal) (string, error) {
	now := a.clock.Now()
	claims := Claims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Authenticate turns a bearer token into the principal it was issued for.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	claims, err := a.parse(token)
	if err != nil {
		return models.Principal{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil || !claims.Role.Valid() {
		return models.Principal{}, ErrInvalidToken
	}

	if a.revoker != nil {
		revoked, err := a.revoker.IsRevoked(ctx, token)
		if err != nil {
			return models.Principal{}, fmt.Errorf("checking token revocation: %w", err)
		}
		if revoked {
			return models.Principal{}, ErrRevokedToken
		}
	}

	return models.Principal{UserID: userID, Role: claims.Role}, nil
}

func (a *Authenticator) Logout(ctx context.Context, token string) error {
	claims, err := a.parse(token)
	if err != nil {
		return err
	}
	if a.revoker == nil {
		return errors.New("token revocation is not configured")
	}
	ttl := claims.ExpiresAt.Time.Sub(a.clock.Now())
	if ttl <= 0 {
		return nil
	}
	return a.revoker.Revoke(ctx, token, ttl)
}
