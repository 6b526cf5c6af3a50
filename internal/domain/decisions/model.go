package decisions

import (
	"strings"
	"time"
)

// Kind del swipe.
// @Enum REQUEST, IGNORE
type Kind string

const (
	KindRequest Kind = "REQUEST"
	KindIgnore  Kind = "IGNORE"
)

func (k Kind) Valid() bool { return k == KindRequest || k == KindIgnore }

// ParseKind acepta también SOLICITAR/IGNORAR del cliente móvil viejo.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "REQUEST", "SOLICITAR":
		return KindRequest, true
	case "IGNORE", "IGNORAR":
		return KindIgnore, true
	}
	return "", false
}

// Decision es el like/skip implícito de un adoptante sobre un animal.
// Hay a lo sumo una por (UserID, AnimalID).
type Decision struct {
	ID        string
	UserID    string
	AnimalID  string
	Kind      Kind
	DecidedAt time.Time
}
