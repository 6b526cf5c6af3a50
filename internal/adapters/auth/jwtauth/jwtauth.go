// Package jwtauth firma y valida tokens HS256 propios. Sirve como identity
// provider local cuando no hay Odin (AUTH_MODE=jwt) y para cmd/devtoken.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adopta-api/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSecret     = errors.New("jwt secret is empty")
	ErrInvalidToken = errors.New("invalid token")
)

const DefaultTTL = 24 * time.Hour

// Claims lleva el principal completo; el core no consulta a nadie más.
type Claims struct {
	Email       string               `json:"email,omitempty"`
	Name        string               `json:"name,omitempty"`
	Phone       string               `json:"phone,omitempty"`
	Role        string               `json:"role"`
	Province    string               `json:"province,omitempty"`
	CompanyName string               `json:"company_name,omitempty"`
	Approved    bool                 `json:"approved,omitempty"`
	Profile     *auth.AdopterProfile `json:"profile,omitempty"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type Authority struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func New(cfg Config) (*Authority, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, ErrNoSecret
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Authority{
		secret: []byte(secret),
		issuer: strings.TrimSpace(cfg.Issuer),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue firma un token para el principal dado.
func (a *Authority) Issue(p auth.Principal) (string, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return "", errors.New("principal user id required")
	}
	if !p.Role.Valid() {
		return "", fmt.Errorf("invalid role %q", p.Role)
	}

	now := a.now()
	claims := &Claims{
		Email:       p.Email,
		Name:        p.Name,
		Phone:       p.Phone,
		Role:        string(p.Role),
		Province:    p.Province,
		CompanyName: p.CompanyName,
		Approved:    p.Approved,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	if p.IsIndividual() {
		profile := p.Profile
		claims.Profile = &profile
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify implementa auth.Verifier.
func (a *Authority) Verify(ctx context.Context, token string) (auth.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return auth.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return auth.Principal{}, ErrInvalidToken
	}

	return claims.principal()
}

func (c *Claims) principal() (auth.Principal, error) {
	uid := strings.TrimSpace(c.Subject)
	if uid == "" {
		return auth.Principal{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	role, ok := auth.ParseRole(c.Role)
	if !ok {
		return auth.Principal{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, c.Role)
	}

	p := auth.Principal{
		UserID:      uid,
		Email:       c.Email,
		Name:        c.Name,
		Phone:       c.Phone,
		Role:        role,
		CompanyName: c.CompanyName,
		Approved:    c.Approved,
	}
	if prov, ok := auth.NormalizeProvince(c.Province); ok {
		p.Province = prov
	}
	if c.Profile != nil && role == auth.RoleIndividual {
		p.Profile = *c.Profile
	}
	return p, nil
}
