package identity

import (
	"context"
	"errors"
	"strings"
)

// Identity is the authenticated user, or nil for an anonymous session.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Provider is the hosted identity/session service, consumed at its
// interface boundary. The provider itself is not reimplemented here.
type Provider interface {
	// Current returns the signed-in identity or nil.
	Current() *Identity

	// OnChange registers a callback fired on sign-in and sign-out. The
	// returned func unregisters it.
	OnChange(fn func(*Identity)) (cancel func())

	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, email, password, fullName string) (*Identity, error)
	SignOut(ctx context.Context) error
}

// AuthReason categorizes provider sign-in/up failures for user-facing
// messages.
type AuthReason string

const (
	ReasonInvalidCredentials AuthReason = "invalid_credentials"
	ReasonEmailNotVerified   AuthReason = "email_not_verified"
	ReasonAlreadyRegistered  AuthReason = "already_registered"
	ReasonUnknown            AuthReason = "unknown"
)

var ErrNotSignedIn = errors.New("no identity signed in")

// MapAuthError buckets a raw provider error by its message, the way the
// hosted provider reports these conditions.
func MapAuthError(err error) AuthReason {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Invalid login credentials"):
		return ReasonInvalidCredentials
	case strings.Contains(msg, "Email not confirmed"):
		return ReasonEmailNotVerified
	case strings.Contains(msg, "already registered"):
		return ReasonAlreadyRegistered
	default:
		return ReasonUnknown
	}
}

// Message returns the user-facing text for a failure reason. The fallback
// surfaces the raw provider message.
func (r AuthReason) Message(err error) string {
	switch r {
	case ReasonInvalidCredentials:
		return "Invalid email or password. Please try again."
	case ReasonEmailNotVerified:
		return "Please verify your email before signing in."
	case ReasonAlreadyRegistered:
		return "This email is already registered. Please sign in instead."
	default:
		if err != nil {
			return err.Error()
		}
		return "Something went wrong. Please try again."
	}
}
