package animals

import "adopta-api/internal/platform/apperr"

// Status de adopción. Solo avanza: NOT_ADOPTED -> IN_PROCESS -> ADOPTED.
// @Enum NOT_ADOPTED, IN_PROCESS, ADOPTED
type Status string

const (
	StatusNotAdopted Status = "NOT_ADOPTED"
	StatusInProcess  Status = "IN_PROCESS"
	StatusAdopted    Status = "ADOPTED"
)

var ErrInvalidTransition = apperr.Validation("invalid adoption status transition")

func (s Status) rank() int {
	switch s {
	case StatusNotAdopted:
		return 0
	case StatusInProcess:
		return 1
	case StatusAdopted:
		return 2
	}
	return -1
}

func (s Status) Valid() bool { return s.rank() >= 0 }

// CheckTransition valida from -> to. Devuelve changed=false si ya está en to
// (idempotente). Solo se permite avanzar un paso.
func CheckTransition(from, to Status) (changed bool, err error) {
	if !from.Valid() || !to.Valid() {
		return false, ErrInvalidTransition
	}
	if from == to {
		return false, nil
	}
	if to.rank() != from.rank()+1 {
		return false, ErrInvalidTransition
	}
	return true, nil
}
