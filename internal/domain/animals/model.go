package animals

import "time"

// Species define las especies soportadas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Gender del animal.
// @Enum male, female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Size define el tamaño adulto esperado.
// @Enum small, medium, large
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// ChildFriendly indica qué tan apto es con niños.
// @Enum excellent, good, caution, not_recommended, unknown
type ChildFriendly string

const (
	ChildExcellent      ChildFriendly = "excellent"
	ChildGood           ChildFriendly = "good"
	ChildCaution        ChildFriendly = "caution"
	ChildNotRecommended ChildFriendly = "not_recommended"
	ChildUnknown        ChildFriendly = "unknown"
)

// PetCompatibility con otros animales de la casa.
// @Enum excellent, good_with_dogs, good_with_cats, selective, prefers_alone, unknown
type PetCompatibility string

const (
	PetsExcellent    PetCompatibility = "excellent"
	PetsGoodWithDogs PetCompatibility = "good_with_dogs"
	PetsGoodWithCats PetCompatibility = "good_with_cats"
	PetsSelective    PetCompatibility = "selective"
	PetsPrefersAlone PetCompatibility = "prefers_alone"
	PetsUnknown      PetCompatibility = "unknown"
)

// SpaceSuitability para vivir en un piso pequeño.
// @Enum ideal, good, needs_space, garden_only, unknown
type SpaceSuitability string

const (
	SpaceIdeal      SpaceSuitability = "ideal"
	SpaceGood       SpaceSuitability = "good"
	SpaceNeedsSpace SpaceSuitability = "needs_space"
	SpaceGardenOnly SpaceSuitability = "garden_only"
	SpaceUnknown    SpaceSuitability = "unknown"
)

// MaxImages es la cantidad de slots de imagen por animal.
const MaxImages = 4

// Animal es la ficha publicada por una protectora (COMPANY).
type Animal struct {
	ID      string
	OwnerID string
	// Provincia de la protectora al momento de la última escritura del dueño.
	OwnerProvince string

	Name      string
	Species   Species
	Gender    Gender
	BirthDate time.Time
	Size      Size
	Breed     string

	Temperament string
	History     string

	ChildFriendly    ChildFriendly
	PetCompatibility PetCompatibility
	SpaceSuitability SpaceSuitability

	Sterilized      bool
	HasHealthIssues bool
	HealthNotes     string

	// Slots ordenados; "" = vacío.
	Images [MaxImages]string

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListFilter lo arma el filtro de visibilidad; los repos solo lo aplican.
type ListFilter struct {
	OwnerID       string
	OwnerProvince string
	Statuses      []Status
	ExcludeIDs    []string

	Species Species
	Size    Size
	Gender  Gender
}

// Criteria son los filtros opcionales que el cliente puede pedir en el feed.
type Criteria struct {
	Species Species
	Size    Size
	Gender  Gender
}

func (s Species) Valid() bool { return s == SpeciesDog || s == SpeciesCat }
func (g Gender) Valid() bool  { return g == GenderMale || g == GenderFemale }

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

func (c ChildFriendly) Valid() bool {
	switch c {
	case ChildExcellent, ChildGood, ChildCaution, ChildNotRecommended, ChildUnknown:
		return true
	}
	return false
}

func (c PetCompatibility) Valid() bool {
	switch c {
	case PetsExcellent, PetsGoodWithDogs, PetsGoodWithCats, PetsSelective, PetsPrefersAlone, PetsUnknown:
		return true
	}
	return false
}

func (s SpaceSuitability) Valid() bool {
	switch s {
	case SpaceIdeal, SpaceGood, SpaceNeedsSpace, SpaceGardenOnly, SpaceUnknown:
		return true
	}
	return false
}
