package auth

import "strings"

// Role es el tipo cerrado de principal. Solo existen COMPANY e INDIVIDUAL.
type Role string

const (
	RoleCompany    Role = "COMPANY"
	RoleIndividual Role = "INDIVIDUAL"
)

func (r Role) Valid() bool {
	return r == RoleCompany || r == RoleIndividual
}

// ParseRole acepta también los valores heredados EMPRESA/USUARIO.
func ParseRole(s string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "COMPANY", "EMPRESA":
		return RoleCompany, true
	case "INDIVIDUAL", "USUARIO":
		return RoleIndividual, true
	default:
		return "", false
	}
}

// HousingType del adoptante.
type HousingType string

const (
	HousingFlat  HousingType = "flat"
	HousingHouse HousingType = "house"
	HousingOther HousingType = "other"
)

// AdopterProfile son las preferencias declaradas por un INDIVIDUAL.
type AdopterProfile struct {
	HasChildren       bool        `json:"has_children"`
	HasOtherPets      bool        `json:"has_other_pets"`
	Housing           HousingType `json:"housing_type,omitempty"`
	PrefersSmall      bool        `json:"prefers_small"`
	AvailableForWalks bool        `json:"available_for_walks"`
	AcceptsSick       bool        `json:"accepts_sick"`
	AcceptsOld        bool        `json:"accepts_old"`
	WantsCalm         bool        `json:"wants_calm"`
	HasJob            bool        `json:"has_job"`
	AnimalOftenAlone  bool        `json:"animal_often_alone"`
}

// Principal es la identidad autenticada que entrega el identity provider.
// El core no la persiste; solo la lee (province es clave de filtrado).
type Principal struct {
	UserID   string
	Email    string
	Name     string
	Phone    string
	Role     Role
	Province string

	// Solo COMPANY
	CompanyName string
	Approved    bool

	// Solo INDIVIDUAL
	Profile AdopterProfile
}

func (p Principal) IsCompany() bool    { return p.Role == RoleCompany }
func (p Principal) IsIndividual() bool { return p.Role == RoleIndividual }
