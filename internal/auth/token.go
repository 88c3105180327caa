package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid hand-view token")

// TokenIssuer mints short-lived tokens proving that a player passed the
// privacy gate for a session. The hand-reveal endpoint checks them so a
// passing attempt does not have to be replayed on every state fetch.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer. ttl bounds how long a passed gate stays
// valid; a zero ttl defaults to five minutes.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue signs a token scoped to one player of one session.
func (t *TokenIssuer) Issue(sessionID, playerID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": playerID,
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(t.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks signature, expiry, and the (session, player) scope.
func (t *TokenIssuer) Verify(tokenString, sessionID, playerID string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrInvalidToken
	}
	if claims["sub"] != playerID || claims["sid"] != sessionID {
		return ErrInvalidToken
	}
	return nil
}
