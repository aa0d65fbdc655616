package auth

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/alfredjeanlab/tracker/internal/model"
)

// ErrInvalidCredentials is returned for a malformed or wrong Authorization value.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore looks up accounts by username.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// Authenticator turns an Authorization header value into an Identity.
//
// "Basic" credentials are checked against bcrypt password hashes in the user
// store. A "Bearer" token equal to the configured service token yields the
// service identity, which acts as a super user. An empty header yields the
// anonymous identity.
type Authenticator struct {
	users       UserStore
	token       string
	serviceUser string
}

// NewAuthenticator returns an Authenticator. When token is empty, bearer
// credentials are always rejected.
func NewAuthenticator(users UserStore, token, serviceUser string) *Authenticator {
	if serviceUser == "" {
		serviceUser = "service"
	}
	return &Authenticator{users: users, token: token, serviceUser: serviceUser}
}

// Authenticate resolves the caller identity from an Authorization header value.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (Identity, error) {
	if header == "" {
		return Anonymous(), nil
	}

	scheme, cred, ok := strings.Cut(header, " ")
	if !ok {
		return Identity{}, fmt.Errorf("%w: malformed authorization header", ErrInvalidCredentials)
	}

	switch strings.ToLower(scheme) {
	case "bearer":
		return a.bearer(cred)
	case "basic":
		return a.basic(ctx, cred)
	}
	return Identity{}, fmt.Errorf("%w: unsupported authorization scheme %q", ErrInvalidCredentials, scheme)
}

func (a *Authenticator) bearer(token string) (Identity, error) {
	if a.token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
		return Identity{}, fmt.Errorf("%w: invalid token", ErrInvalidCredentials)
	}
	return Identity{Username: a.serviceUser, SuperUser: true, Service: true}, nil
}

func (a *Authenticator) basic(ctx context.Context, cred string) (Identity, error) {
	raw, err := base64.StdEncoding.DecodeString(cred)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: malformed basic credentials", ErrInvalidCredentials)
	}
	username, password, ok := strings.Cut(string(raw), ":")
	if !ok || username == "" {
		return Identity{}, fmt.Errorf("%w: malformed basic credentials", ErrInvalidCredentials)
	}

	user, err := a.users.GetUserByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, fmt.Errorf("%w: unknown user or wrong password", ErrInvalidCredentials)
	}
	if err != nil {
		return Identity{}, fmt.Errorf("get user: %w", err)
	}

	ok, err = CheckPassword(user.PasswordHash, password)
	if err != nil {
		return Identity{}, err
	}
	if !ok {
		return Identity{}, fmt.Errorf("%w: unknown user or wrong password", ErrInvalidCredentials)
	}
	return Identity{Username: user.Username, SuperUser: user.SuperUser}, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// CheckPassword reports whether password matches hash.
// Accounts without a hash never match.
func CheckPassword(hash []byte, password string) (bool, error) {
	if len(hash) == 0 {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("compare password: %w", err)
}

// BasicHeader returns an Authorization header value for username and password.
func BasicHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
