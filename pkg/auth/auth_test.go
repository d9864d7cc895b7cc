package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/waymark/pkg/errors"
	"github.com/matzehuels/waymark/pkg/roadmap"
)

type fakeUsers map[string]roadmap.User

func (f fakeUsers) UserByUsername(ctx context.Context, username string) (*roadmap.User, error) {
	u, ok := f[username]
	if !ok {
		return nil, errs.New(errs.ErrCodeUserNotFound, "user %q not found", username)
	}
	return &u, nil
}

func seedUsers() fakeUsers {
	users := fakeUsers{}
	for _, u := range roadmap.SeedUsers() {
		users[u.Username] = u
	}
	return users
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		code     errs.Code
	}{
		{"valid", "okan@gmail.com", "okanacer", ""},
		{"empty email", "", "okanacer", errs.ErrCodeInvalidEmail},
		{"no at", "okan.gmail.com", "okanacer", errs.ErrCodeInvalidEmail},
		{"no dot in domain", "okan@gmail", "okanacer", errs.ErrCodeInvalidEmail},
		{"whitespace inside", "ok an@gmail.com", "okanacer", errs.ErrCodeInvalidEmail},
		{"short password", "okan@gmail.com", "12345", errs.ErrCodeInvalidPassword},
		{"six chars ok", "a@b.co", "123456", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.email, tt.password)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.code, errs.GetCode(err))
		})
	}
}

func TestLoginDemo(t *testing.T) {
	a := New(seedUsers())

	u, err := a.Login(context.Background(), "okan@gmail.com", "okanacer")
	require.NoError(t, err)
	assert.Equal(t, "u3", u.ID)
	assert.Equal(t, roadmap.DemoUsername, u.Username)

}

func TestLoginEmailMatchesExactly(t *testing.T) {
	a := New(seedUsers())

	for _, email := range []string{"OKAN@GMAIL.COM", " okan@gmail.com", "Okan@Gmail.com", "okan@gmail.com "} {
		u, err := a.Login(context.Background(), email, "okanacer")
		assert.Nil(t, u, "email %q", email)
		assert.Equal(t, errs.ErrCodeUnauthorized, errs.GetCode(err), "email %q", email)
	}
}

func TestLoginRejected(t *testing.T) {
	a := New(seedUsers())
	ctx := context.Background()

	_, err := a.Login(ctx, "okan@gmail.com", "wrongpass")
	assert.True(t, errs.Is(err, errs.ErrCodeUnauthorized))

	_, err = a.Login(ctx, "someone@gmail.com", "okanacer")
	assert.True(t, errs.Is(err, errs.ErrCodeUnauthorized))
	assert.Equal(t, "invalid email or password", errs.UserMessage(err))

	_, err = a.Login(ctx, "bad", "okanacer")
	assert.True(t, errs.IsValidation(err))
}

func TestLoginMissingUser(t *testing.T) {
	a := New(fakeUsers{})
	_, err := a.Login(context.Background(), "okan@gmail.com", "okanacer")
	require.Error(t, err)
	assert.Equal(t, errs.ErrCodeInternal, errs.GetCode(err))
	assert.True(t, errs.Is(errors.Unwrap(err), errs.ErrCodeUserNotFound))
}

func TestCustomCredential(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	a := New(seedUsers(), Credential{Email: "ayse@example.com", PasswordHash: hash, Username: "ayse_kaya"})
	u, err := a.Login(context.Background(), "ayse@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "u2", u.ID)

	_, err = a.Login(context.Background(), "okan@gmail.com", "okanacer")
	assert.True(t, errs.Is(err, errs.ErrCodeUnauthorized), "demo account is replaced by explicit credentials")
}
