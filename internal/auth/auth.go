// Package auth holds the authentication gate contract the turn coordinator
// consults before a hand may be shown, plus the implementations the server
// and terminal client use.
package auth

import "context"

// Outcome is the closed result of one authentication attempt.
type Outcome string

const (
	Succeeded   Outcome = "succeeded"
	Failed      Outcome = "failed"
	Unavailable Outcome = "unavailable" // no authentication method on this device
)

// Authenticator performs a single authentication attempt. Attempt may block
// for as long as the human interaction takes; there is no timeout here, and
// the only cancellation signal is ctx. A Failed outcome is not an error:
// the error return is reserved for the collection mechanism itself breaking.
type Authenticator interface {
	Attempt(ctx context.Context) (Outcome, error)
}

// Allow always succeeds. Used when the privacy gate is switched off.
type Allow struct{}

func (Allow) Attempt(ctx context.Context) (Outcome, error) {
	return Succeeded, nil
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context) (Outcome, error)

func (f AuthenticatorFunc) Attempt(ctx context.Context) (Outcome, error) {
	return f(ctx)
}

type codeKey struct{}

// WithCode attaches a submitted passcode to the context, for attempts driven
// by a request/response surface rather than an interactive prompt.
func WithCode(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, codeKey{}, code)
}

// CodeFromContext returns the passcode attached by WithCode.
func CodeFromContext(ctx context.Context) (string, bool) {
	code, ok := ctx.Value(codeKey{}).(string)
	return code, ok
}
