package core

import (
	"context"
	"errors"
)

// ErrInvalidCredentials is returned by AccountAuthenticator implementations
// when the username is unknown or the password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// IdentityAccount is the subset of an identity-provider account this app cares
// about. ID is the provider's stable user ID; it doubles as the primary key of
// the matching teacher/student/parent row.
type IdentityAccount struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	Role      string
}

type (
	NewIdentityAccount struct {
		Username  string
		Password  string
		FirstName string
		LastName  string
		Role      string
	}

	UpdateIdentityAccount struct {
		Username  string
		Password  string // ignored when empty
		FirstName string
		LastName  string
	}

	// IdentityService is the hosted identity provider holding the actual user
	// accounts (credentials, sessions). The app never stores passwords; it
	// provisions accounts here and keys its people rows by the returned IDs.
	IdentityService interface {
		CreateAccount(ctx context.Context, data NewIdentityAccount) (IdentityAccount, error)
		UpdateAccount(ctx context.Context, id string, data UpdateIdentityAccount) (IdentityAccount, error)
		DeleteAccount(ctx context.Context, id string) error
	}

	// AccountAuthenticator checks credentials against an identity store. The
	// hosted provider runs its own sessions, so only the local store (dev,
	// seeds, the admin CLI) implements it.
	AccountAuthenticator interface {
		Authenticate(ctx context.Context, username, password string) (IdentityAccount, error)
	}
)
