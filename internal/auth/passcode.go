package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// Passcode gates hand visibility behind a shared table passcode. The code is
// collected per attempt, either through Prompt (interactive clients) or from
// the context via WithCode (request-driven clients). With no passcode set or
// no way to collect one, the attempt reports Unavailable and the coordinator
// fails open.
type Passcode struct {
	hash []byte

	// Prompt collects a passcode from the player. Optional; when nil the
	// attempt falls back to CodeFromContext.
	Prompt func(ctx context.Context) (string, error)
}

// NewPasscode hashes the passcode for later verification. An empty passcode
// yields an authenticator that always reports Unavailable.
func NewPasscode(passcode string) (*Passcode, error) {
	if passcode == "" {
		return &Passcode{}, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Passcode{hash: hash}, nil
}

// Attempt collects one passcode and verifies it.
func (p *Passcode) Attempt(ctx context.Context) (Outcome, error) {
	if len(p.hash) == 0 {
		return Unavailable, nil
	}

	var code string
	if p.Prompt != nil {
		c, err := p.Prompt(ctx)
		if err != nil {
			return Failed, err
		}
		code = c
	} else {
		c, ok := CodeFromContext(ctx)
		if !ok {
			return Unavailable, nil
		}
		code = c
	}

	if err := bcrypt.CompareHashAndPassword(p.hash, []byte(code)); err != nil {
		return Failed, nil
	}
	return Succeeded, nil
}
