package profile

import (
	"net/http"

	"adopta-api/internal/domain/access"
	"adopta-api/internal/middleware"
	"adopta-api/internal/platform/respond"
	"adopta-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router) {
	r.Get("/me", meHandler())
}

type companyFields struct {
	CompanyName string `json:"company_name"`
	Approved    bool   `json:"approved"`
}

type profileResponse struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email,omitempty"`
	Name     string    `json:"name,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Role     auth.Role `json:"role"`
	Province string    `json:"province,omitempty"`

	Company *companyFields       `json:"company,omitempty"`
	Adopter *auth.AdopterProfile `json:"adopter,omitempty"`
}

// meHandler godoc
// @Summary Perfil del usuario autenticado
// @Description Devuelve los campos del rol: datos de empresa para COMPANY, preferencias para INDIVIDUAL.
// @Tags profile
// @Produce json
// @Success 200 {object} profileResponse
// @Failure 401 {object} respond.ErrorBody
// @Router /me [get]
func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := middleware.Principal(r.Context())
		if err := access.Require(access.ProfileRead, p); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toProfileResponse(*p))
	}
}

func toProfileResponse(p auth.Principal) profileResponse {
	out := profileResponse{
		UserID:   p.UserID,
		Email:    p.Email,
		Name:     p.Name,
		Phone:    p.Phone,
		Role:     p.Role,
		Province: p.Province,
	}
	switch p.Role {
	case auth.RoleCompany:
		out.Company = &companyFields{CompanyName: p.CompanyName, Approved: p.Approved}
	case auth.RoleIndividual:
		prof := p.Profile
		out.Adopter = &prof
	}
	return out
}
