package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTTokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type SignerOption func(*JWTTokenSigner)

// WithSignerClock overrides the time source used for both minting and expiry checks.
func WithSignerClock(now func() time.Time) SignerOption {
	return func(s *JWTTokenSigner) {
		if now != nil {
			s.now = now
		}
	}
}

func NewJWTTokenSigner(secret string, ttl time.Duration, opts ...SignerOption) *JWTTokenSigner {
	s := &JWTTokenSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *JWTTokenSigner) TTL() time.Duration {
	return s.ttl
}

// Sign mints an HS256 token carrying the account and role ids. Every token
// gets a random jti so two logins in the same second never collide.
func (s *JWTTokenSigner) Sign(accountID, roleID int64) (string, error) {
	now := s.now()

	claims := &Claims{
		AccountID: accountID,
		RoleID:    roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Parse verifies signature and expiry. It returns ErrTokenExpired for an
// elapsed exp and ErrInvalidToken for everything else.
func (s *JWTTokenSigner) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
