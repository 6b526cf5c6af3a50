package feed

import "adopta-api/internal/ports/auth"

// Visibility es la variante cerrada de quién mira el feed.
type Visibility int

const (
	Anonymous Visibility = iota
	Company
	Individual
)

func (v Visibility) String() string {
	switch v {
	case Company:
		return "company"
	case Individual:
		return "individual"
	default:
		return "anonymous"
	}
}

// Viewer empareja la variante con el principal (vacío si Anonymous).
type Viewer struct {
	Kind      Visibility
	Principal auth.Principal
}

func ViewerOf(p *auth.Principal) Viewer {
	if p == nil || p.UserID == "" {
		return Viewer{Kind: Anonymous}
	}
	switch p.Role {
	case auth.RoleCompany:
		return Viewer{Kind: Company, Principal: *p}
	case auth.RoleIndividual:
		return Viewer{Kind: Individual, Principal: *p}
	}
	// Rol desconocido: se trata como anónimo, nunca con más permisos.
	return Viewer{Kind: Anonymous}
}
