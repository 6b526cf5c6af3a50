package jwtauth

import (
	"context"
	"testing"
	"time"

	"adopta-api/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthority(t *testing.T) *Authority {
	t.Helper()
	a, err := New(Config{Secret: "s3cr3t", Issuer: "adopta", TTL: time.Hour})
	require.NoError(t, err)
	return a
}

func TestIssueVerify_Individual(t *testing.T) {
	a := newAuthority(t)

	in := auth.Principal{
		UserID:   "u-1",
		Email:    "ana@x.es",
		Role:     auth.RoleIndividual,
		Province: "Sevilla",
		Profile:  auth.AdopterProfile{HasChildren: true, Housing: auth.HousingHouse},
	}
	tok, err := a.Issue(in)
	require.NoError(t, err)

	got, err := a.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestIssueVerify_CompanyHasNoProfile(t *testing.T) {
	a := newAuthority(t)

	tok, err := a.Issue(auth.Principal{
		UserID:      "c-1",
		Role:        auth.RoleCompany,
		CompanyName: "Refugio",
		Approved:    true,
		Profile:     auth.AdopterProfile{HasJob: true},
	})
	require.NoError(t, err)

	got, err := a.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleCompany, got.Role)
	assert.True(t, got.Approved)
	assert.Equal(t, auth.AdopterProfile{}, got.Profile)
}

func TestVerify_Rejects(t *testing.T) {
	a := newAuthority(t)
	tok, err := a.Issue(auth.Principal{UserID: "u-1", Role: auth.RoleIndividual})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		late := *a
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Verify(context.Background(), tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := New(Config{Secret: "otro", Issuer: "adopta"})
		require.NoError(t, err)
		_, err = other.Verify(context.Background(), tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		other, err := New(Config{Secret: "s3cr3t", Issuer: "otro"})
		require.NoError(t, err)
		_, err = other.Verify(context.Background(), tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		claims := &Claims{
			Role: "ADMIN",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "x",
				Issuer:    "adopta",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cr3t"))
		require.NoError(t, err)
		_, err = a.Verify(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := a.Verify(context.Background(), "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(Config{Secret: "  "})
	assert.ErrorIs(t, err, ErrNoSecret)
}
