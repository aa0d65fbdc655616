// Package auth resolves caller identity at the request boundary and decides
// what that identity may do within a project.
package auth

import "context"

// Identity is an authenticated principal. The zero value is the anonymous
// caller.
type Identity struct {
	Username  string `json:"username"`
	SuperUser bool   `json:"super_user,omitempty"`
	Service   bool   `json:"service,omitempty"`
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity { return Identity{} }

// IsAnonymous reports whether the identity carries no username.
func (i Identity) IsAnonymous() bool { return i.Username == "" }

// String returns the username, or "anonymous".
func (i Identity) String() string {
	if i.IsAnonymous() {
		return "anonymous"
	}
	return i.Username
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by WithIdentity, or Anonymous.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityKey{}).(Identity); ok {
		return id
	}
	return Anonymous()
}
