// Package auth validates login credentials and resolves them to a user.
//
// Waymark ships with a single demo account. Its password is held only as a
// bcrypt hash; [Authenticator.Login] compares against that hash and then looks
// the bound user up by username.
package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	errs "github.com/matzehuels/waymark/pkg/errors"
	"github.com/matzehuels/waymark/pkg/roadmap"
)

// demoPasswordHash is the bcrypt hash of the demo account password.
var demoPasswordHash = mustHash("okanacer")

// UserLookup resolves a username to a user.
type UserLookup interface {
	UserByUsername(ctx context.Context, username string) (*roadmap.User, error)
}

// Credential is one accepted email/password pair.
type Credential struct {
	Email        string
	PasswordHash []byte
	Username     string
}

// DemoCredential is the built-in demo account.
func DemoCredential() Credential {
	return Credential{
		Email:        roadmap.DemoEmail,
		PasswordHash: demoPasswordHash,
		Username:     roadmap.DemoUsername,
	}
}

// ValidateCredentials checks the shape of a login attempt before any lookup.
func ValidateCredentials(email, password string) error {
	if err := errs.ValidateEmail(strings.TrimSpace(email)); err != nil {
		return err
	}
	return errs.ValidatePassword(password)
}

// Authenticator checks credentials against a fixed set of accounts.
type Authenticator struct {
	users UserLookup
	creds []Credential
}

// New creates an authenticator. With no credentials given it accepts only
// the demo account.
func New(users UserLookup, creds ...Credential) *Authenticator {
	if len(creds) == 0 {
		creds = []Credential{DemoCredential()}
	}
	return &Authenticator{users: users, creds: creds}
}

// Login validates the input, verifies the password, and returns the bound
// user. The email must match a credential exactly. Unknown emails and wrong
// passwords fail with the same error.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*roadmap.User, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	for _, c := range a.creds {
		if c.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)) != nil {
			break
		}
		u, err := a.users.UserByUsername(ctx, c.Username)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "resolve user %s", c.Username)
		}
		return u, nil
	}
	return nil, errs.New(errs.ErrCodeUnauthorized, "invalid email or password")
}

// HashPassword returns a bcrypt hash suitable for [Credential.PasswordHash].
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func mustHash(password string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}
