package odin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"adopta-api/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T, h http.HandlerFunc) *Verifier {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "k-123"})
	require.NoError(t, err)
	return NewVerifier(c)
}

func TestVerify_Company(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, verifyPath, r.URL.Path)
		assert.Equal(t, "k-123", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tok", body["token"])

		_, _ = w.Write([]byte(`{
			"user_id":"c-1","email":"p@x.es","role":"EMPRESA","province":"madrid",
			"company":{"name":"Protectora Sol","approved":true}
		}`))
	})

	p, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "c-1", p.UserID)
	assert.Equal(t, auth.RoleCompany, p.Role)
	assert.Equal(t, "Madrid", p.Province)
	assert.Equal(t, "Protectora Sol", p.CompanyName)
	assert.True(t, p.Approved)
}

func TestVerify_IndividualProfile(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"user_id":"u-1","role":"INDIVIDUAL","province":"Atlántida",
			"adopter":{"has_children":true,"housing_type":"FLAT","wants_calm":true}
		}`))
	})

	p, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleIndividual, p.Role)
	assert.Empty(t, p.Province)
	assert.True(t, p.Profile.HasChildren)
	assert.True(t, p.Profile.WantsCalm)
	assert.Equal(t, auth.HousingFlat, p.Profile.Housing)
}

func TestVerify_Errors(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		_, err := v.Verify(context.Background(), "tok")
		assert.ErrorIs(t, err, ErrOdinUnauthorized)
	})

	t.Run("upstream", func(t *testing.T) {
		v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := v.Verify(context.Background(), "tok")
		assert.ErrorIs(t, err, ErrOdinUpstream)
	})

	t.Run("unknown role", func(t *testing.T) {
		v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"user_id":"x","role":"ADMIN"}`))
		})
		_, err := v.Verify(context.Background(), "tok")
		assert.ErrorIs(t, err, ErrUnknownRole)
	})

	t.Run("empty token", func(t *testing.T) {
		v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("should not call odin")
		})
		_, err := v.Verify(context.Background(), "  ")
		assert.ErrorIs(t, err, ErrTokenEmpty)
	})

	t.Run("not configured", func(t *testing.T) {
		c, err := NewClient(Config{})
		require.NoError(t, err)
		_, err = NewVerifier(c).Verify(context.Background(), "tok")
		assert.ErrorIs(t, err, ErrOdinNotConfigured)
	})
}
