package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SessionTokens issues and checks writer tokens. A token carries the
// tournament id as its subject and lets the bearer resolve that tournament's
// matches; reading a tournament needs no token.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (t *SessionTokens) Issue(tournamentID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   tournamentID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and that the token was issued for tournamentID.
func (t *SessionTokens) Verify(tokenString, tournamentID string) error {
	if tokenString == "" {
		return ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return fmt.Errorf("%w: token expired", ErrInvalidToken)
		}
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject != tournamentID {
		return fmt.Errorf("%w: token was issued for another tournament", ErrInvalidToken)
	}
	return nil
}
