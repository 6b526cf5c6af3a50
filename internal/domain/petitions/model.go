package petitions

import (
	"strings"
	"time"
)

// Status de la petición. PENDING es el único no terminal.
// @Enum PENDING, ACCEPTED, REJECTED
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}

func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// ParseStatus acepta también Pendiente/Aceptada/Rechazada.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PENDING", "PENDIENTE":
		return StatusPending, true
	case "ACCEPTED", "ACEPTADA":
		return StatusAccepted, true
	case "REJECTED", "RECHAZADA":
		return StatusRejected, true
	}
	return "", false
}

// Petition es la solicitud de adopción explícita de un INDIVIDUAL.
// Hay a lo sumo una por (UserID, AnimalID).
type Petition struct {
	ID       string
	AnimalID string
	UserID   string
	Status   Status
	Read     bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// Lo completan los repos en lecturas (join con animals).
	Animal AnimalSummary
}

type AnimalSummary struct {
	Name      string
	BirthDate time.Time
	OwnerID   string
}

// Group son las vistas por status para la protectora.
type Group string

const (
	GroupDefault  Group = "default"
	GroupRejected Group = "rejected"
	GroupAccepted Group = "accepted"
	GroupPending  Group = "pending"
)

func (g Group) Statuses() ([]Status, bool) {
	switch g {
	case GroupDefault, "":
		return []Status{StatusPending, StatusAccepted}, true
	case GroupRejected:
		return []Status{StatusRejected}, true
	case GroupAccepted:
		return []Status{StatusAccepted}, true
	case GroupPending:
		return []Status{StatusPending}, true
	}
	return nil, false
}

type OrderField string

const (
	OrderCreatedAt       OrderField = "created_at"
	OrderAnimalName      OrderField = "animal_name"
	OrderAnimalBirthDate OrderField = "animal_birth_date"
)

type Order struct {
	Field OrderField
	Desc  bool
}

// DefaultOrder: más nuevas primero.
var DefaultOrder = Order{Field: OrderCreatedAt, Desc: true}

// ParseOrdering interpreta "[-]campo". Un campo desconocido cae en
// created_at conservando la dirección pedida; vacío => DefaultOrder.
func ParseOrdering(raw string) Order {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultOrder
	}

	o := Order{}
	if strings.HasPrefix(raw, "-") {
		o.Desc = true
		raw = strings.TrimPrefix(raw, "-")
	}

	switch OrderField(strings.ToLower(raw)) {
	case OrderAnimalName, "animal__nombre":
		o.Field = OrderAnimalName
	case OrderAnimalBirthDate, "animal__fecha_nacimiento":
		o.Field = OrderAnimalBirthDate
	default:
		o.Field = OrderCreatedAt
	}
	return o
}

// ListQuery ya viene acotada por rol desde el servicio.
type ListQuery struct {
	UserID    string // INDIVIDUAL: solo las suyas
	CompanyID string // COMPANY: las de sus animales
	AnimalID  string
	Statuses  []Status
	Order     Order
}
