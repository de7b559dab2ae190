package auth

import "context"

// Verifier checks a username and password. Unknown users and wrong passwords
// both verify false without an error.
type Verifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// System defines the public contract for auth operations.
type System interface {
	Verifier
	Handler() *Handler
	Create(ctx context.Context, cmd CreateCommand) (*User, error)
}
