// Package access es la tabla única de autorización:
// (operación, rol, predicado de ownership) => allow/deny.
package access

import (
	"adopta-api/internal/platform/apperr"
	"adopta-api/internal/ports/auth"
)

type Operation string

const (
	AnimalCreate      Operation = "animal.create"
	AnimalUpdate      Operation = "animal.update"
	AnimalDelete      Operation = "animal.delete"
	AnimalUploadImage Operation = "animal.upload_image"

	DecisionRecord Operation = "decision.record"
	DecisionReset  Operation = "decision.reset_ignored"
	DecisionList   Operation = "decision.list"

	PetitionCreate   Operation = "petition.create"
	PetitionUpdate   Operation = "petition.update"
	PetitionComplete Operation = "petition.complete"
	PetitionDelete   Operation = "petition.delete"
	PetitionList     Operation = "petition.list"
	PetitionGroups   Operation = "petition.groups"

	ProfileRead Operation = "profile.read"
)

// Ownership indica qué tiene que cumplir el principal respecto del recurso.
type Ownership int

const (
	// AnyResource: basta el rol.
	AnyResource Ownership = iota
	// OwnResource: principal.UserID debe coincidir con el dueño del recurso.
	OwnResource
)

type Rule struct {
	Roles     []auth.Role
	Ownership Ownership
}

var (
	companyOnly    = []auth.Role{auth.RoleCompany}
	individualOnly = []auth.Role{auth.RoleIndividual}
	anyRole        = []auth.Role{auth.RoleCompany, auth.RoleIndividual}
)

var policy = map[Operation]Rule{
	AnimalCreate:      {Roles: companyOnly, Ownership: AnyResource},
	AnimalUpdate:      {Roles: companyOnly, Ownership: OwnResource},
	AnimalDelete:      {Roles: companyOnly, Ownership: OwnResource},
	AnimalUploadImage: {Roles: companyOnly, Ownership: OwnResource},

	DecisionRecord: {Roles: individualOnly, Ownership: AnyResource},
	DecisionReset:  {Roles: individualOnly, Ownership: AnyResource},
	DecisionList:   {Roles: individualOnly, Ownership: AnyResource},

	PetitionCreate:   {Roles: individualOnly, Ownership: AnyResource},
	PetitionUpdate:   {Roles: companyOnly, Ownership: OwnResource},
	PetitionComplete: {Roles: companyOnly, Ownership: OwnResource},
	PetitionDelete:   {Roles: individualOnly, Ownership: OwnResource},
	PetitionList:     {Roles: anyRole, Ownership: AnyResource},
	PetitionGroups:   {Roles: companyOnly, Ownership: AnyResource},

	ProfileRead: {Roles: anyRole, Ownership: AnyResource},
}

var (
	ErrUnauthenticated = apperr.Authentication("authentication required")
	ErrWrongRole       = apperr.Authorization("role not allowed for this operation")
	ErrNotOwner        = apperr.Authorization("you do not own this resource")
)

// RuleFor expone la regla (útil para docs/tests).
func RuleFor(op Operation) (Rule, bool) {
	r, ok := policy[op]
	return r, ok
}

// Authorize evalúa op para p. ownerID solo se mira si la regla es OwnResource;
// para chequear solo el rol antes de cargar el recurso usar Require.
func Authorize(op Operation, p *auth.Principal, ownerID string) error {
	rule, err := check(op, p)
	if err != nil {
		return err
	}
	if rule.Ownership == OwnResource && (ownerID == "" || p.UserID != ownerID) {
		return ErrNotOwner
	}
	return nil
}

// Require valida autenticación y rol, sin ownership.
func Require(op Operation, p *auth.Principal) error {
	_, err := check(op, p)
	return err
}

func check(op Operation, p *auth.Principal) (Rule, error) {
	rule, ok := policy[op]
	if !ok {
		// Operación sin regla => deny.
		return Rule{}, ErrWrongRole
	}
	if p == nil || p.UserID == "" {
		return Rule{}, ErrUnauthenticated
	}
	for _, r := range rule.Roles {
		if p.Role == r {
			return rule, nil
		}
	}
	return Rule{}, ErrWrongRole
}
