package odin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"adopta-api/internal/ports/auth"
)

var (
	ErrTokenEmpty  = errors.New("token is empty")
	ErrUnknownRole = errors.New("odin identity has unknown role")
)

// Verifier implementa auth.Verifier usando Odin.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Principal, error) {
	if v == nil || v.client == nil {
		return auth.Principal{}, ErrOdinNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Principal{}, ErrTokenEmpty
	}

	id, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return auth.Principal{}, fmt.Errorf("odin verify failed: %w", err)
	}

	return toPrincipal(id)
}

func toPrincipal(id Identity) (auth.Principal, error) {
	role, ok := auth.ParseRole(id.Role)
	if !ok {
		return auth.Principal{}, fmt.Errorf("%w: %q", ErrUnknownRole, id.Role)
	}

	p := auth.Principal{
		UserID: id.UserID,
		Email:  strings.TrimSpace(id.Email),
		Name:   strings.TrimSpace(id.Name),
		Phone:  strings.TrimSpace(id.Phone),
		Role:   role,
	}
	// Provincia desconocida => sin provincia (feed vacío para adoptantes).
	if prov, ok := auth.NormalizeProvince(id.Province); ok {
		p.Province = prov
	}

	switch role {
	case auth.RoleCompany:
		if id.Company != nil {
			p.CompanyName = strings.TrimSpace(id.Company.Name)
			p.Approved = id.Company.Approved
		}
	case auth.RoleIndividual:
		if a := id.Adopter; a != nil {
			p.Profile = auth.AdopterProfile{
				HasChildren:       a.HasChildren,
				HasOtherPets:      a.HasOtherPets,
				Housing:           auth.HousingType(strings.ToLower(strings.TrimSpace(a.HousingType))),
				PrefersSmall:      a.PrefersSmall,
				AvailableForWalks: a.AvailableForWalks,
				AcceptsSick:       a.AcceptsSick,
				AcceptsOld:        a.AcceptsOld,
				WantsCalm:         a.WantsCalm,
				HasJob:            a.HasJob,
				AnimalOftenAlone:  a.AnimalOftenAlone,
			}
		}
	}
	return p, nil
}
