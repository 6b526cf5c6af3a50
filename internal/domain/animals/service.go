package animals

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"adopta-api/internal/domain/access"
	"adopta-api/internal/platform/apperr"
	"adopta-api/internal/ports/auth"
	"adopta-api/internal/ports/media"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = apperr.NotFound("animal not found")
	ErrStatusChanged     = apperr.Conflict("animal status changed concurrently")
	ErrStatusNotEditable = apperr.Validation("status cannot be set directly")
	ErrImageSlot         = apperr.Validation("image slot must be between 1 and 4")
	ErrNotAnImage        = apperr.Validation("file must be an image")
)

const maxNameLen = 100

type Service struct {
	repo        Repository
	media       media.Store
	mediaPrefix string
	now         func() time.Time
}

type Option func(*Service)

// WithMediaStore habilita la subida de imágenes.
func WithMediaStore(store media.Store, prefix string) Option {
	return func(s *Service) {
		s.media = store
		s.mediaPrefix = strings.Trim(prefix, "/")
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type CreateInput struct {
	Name             string
	Species          string
	Gender           string
	BirthDate        time.Time
	Size             string
	Breed            string
	Temperament      string
	History          string
	ChildFriendly    string
	PetCompatibility string
	SpaceSuitability string
	Sterilized       bool
	HasHealthIssues  bool
	HealthNotes      string
	Images           []string
}

// UpdateInput: punteros = PATCH real, nil no toca.
type UpdateInput struct {
	Name             *string
	Species          *string
	Gender           *string
	BirthDate        *time.Time
	Size             *string
	Breed            *string
	Temperament      *string
	History          *string
	ChildFriendly    *string
	PetCompatibility *string
	SpaceSuitability *string
	Sterilized       *bool
	HasHealthIssues  *bool
	HealthNotes      *string
	Images           []string // si viene, reemplaza los slots en orden

	// StatusPresent lo marca el transporte si el cliente mandó "status".
	StatusPresent bool
}

func (s *Service) Create(ctx context.Context, caller *auth.Principal, in CreateInput) (Animal, error) {
	if err := access.Authorize(access.AnimalCreate, caller, ""); err != nil {
		return Animal{}, err
	}

	now := s.now()
	a := Animal{
		ID:               uuid.NewString(),
		OwnerID:          caller.UserID,
		OwnerProvince:    caller.Province,
		Name:             strings.TrimSpace(in.Name),
		Species:          Species(strings.TrimSpace(in.Species)),
		Gender:           Gender(strings.TrimSpace(in.Gender)),
		BirthDate:        in.BirthDate,
		Size:             Size(strings.TrimSpace(in.Size)),
		Breed:            strings.TrimSpace(in.Breed),
		Temperament:      strings.TrimSpace(in.Temperament),
		History:          strings.TrimSpace(in.History),
		ChildFriendly:    ChildFriendly(orUnknown(in.ChildFriendly)),
		PetCompatibility: PetCompatibility(orUnknown(in.PetCompatibility)),
		SpaceSuitability: SpaceSuitability(orUnknown(in.SpaceSuitability)),
		Sterilized:       in.Sterilized,
		HasHealthIssues:  in.HasHealthIssues,
		HealthNotes:      strings.TrimSpace(in.HealthNotes),
		Status:           StatusNotAdopted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	imgs, err := normalizeImages(in.Images)
	if err != nil {
		return Animal{}, err
	}
	a.Images = imgs

	if err := s.validate(a); err != nil {
		return Animal{}, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// Get lee sin filtro de visibilidad (uso interno entre módulos).
func (s *Service) Get(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetFor aplica visibilidad de detalle: una protectora solo ve los suyos;
// adoptantes y anónimos pueden ver cualquier ficha.
func (s *Service) GetFor(ctx context.Context, caller *auth.Principal, id string) (Animal, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if caller != nil && caller.IsCompany() && a.OwnerID != caller.UserID {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, caller *auth.Principal, id string, in UpdateInput) (Animal, error) {
	if err := access.Require(access.AnimalUpdate, caller); err != nil {
		return Animal{}, err
	}

	a, err := s.Get(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if err := access.Authorize(access.AnimalUpdate, caller, a.OwnerID); err != nil {
		return Animal{}, err
	}
	if in.StatusPresent {
		return Animal{}, ErrStatusNotEditable
	}

	applyString(&a.Name, in.Name)
	applyString(&a.Breed, in.Breed)
	applyString(&a.Temperament, in.Temperament)
	applyString(&a.History, in.History)
	applyString(&a.HealthNotes, in.HealthNotes)
	if in.Species != nil {
		a.Species = Species(strings.TrimSpace(*in.Species))
	}
	if in.Gender != nil {
		a.Gender = Gender(strings.TrimSpace(*in.Gender))
	}
	if in.Size != nil {
		a.Size = Size(strings.TrimSpace(*in.Size))
	}
	if in.ChildFriendly != nil {
		a.ChildFriendly = ChildFriendly(orUnknown(*in.ChildFriendly))
	}
	if in.PetCompatibility != nil {
		a.PetCompatibility = PetCompatibility(orUnknown(*in.PetCompatibility))
	}
	if in.SpaceSuitability != nil {
		a.SpaceSuitability = SpaceSuitability(orUnknown(*in.SpaceSuitability))
	}
	if in.BirthDate != nil {
		a.BirthDate = *in.BirthDate
	}
	if in.Sterilized != nil {
		a.Sterilized = *in.Sterilized
	}
	if in.HasHealthIssues != nil {
		a.HasHealthIssues = *in.HasHealthIssues
	}
	if in.Images != nil {
		imgs, err := normalizeImages(in.Images)
		if err != nil {
			return Animal{}, err
		}
		a.Images = imgs
	}
	if caller.Province != "" {
		a.OwnerProvince = caller.Province
	}

	if err := s.validate(a); err != nil {
		return Animal{}, err
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, caller *auth.Principal, id string) error {
	if err := access.Require(access.AnimalDelete, caller); err != nil {
		return err
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := access.Authorize(access.AnimalDelete, caller, a.OwnerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, a.ID)
}

// TransitionStatus mueve el status un paso hacia adelante.
// Idempotente si ya está en to. Solo lo usa el flujo de peticiones.
func (s *Service) TransitionStatus(ctx context.Context, id string, to Status) (Animal, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	changed, err := CheckTransition(a.Status, to)
	if err != nil {
		return Animal{}, err
	}
	if !changed {
		return a, nil
	}
	if err := s.repo.UpdateStatus(ctx, a.ID, a.Status, to); err != nil {
		return Animal{}, err
	}
	a.Status = to
	return a, nil
}

// List aplica un filtro ya resuelto (ver feed).
func (s *Service) List(ctx context.Context, f ListFilter) ([]Animal, error) {
	return s.repo.List(ctx, f)
}

// ImageUpload es el archivo recibido por el transporte.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadImage sube el binario al media store y guarda la URL en slot (1..4).
// Si el store falla la ficha queda intacta.
func (s *Service) UploadImage(ctx context.Context, caller *auth.Principal, id string, slot int, img ImageUpload) (Animal, error) {
	if err := access.Require(access.AnimalUploadImage, caller); err != nil {
		return Animal{}, err
	}
	if slot < 1 || slot > MaxImages {
		return Animal{}, ErrImageSlot
	}
	if !strings.HasPrefix(strings.ToLower(img.ContentType), "image/") {
		return Animal{}, ErrNotAnImage
	}

	a, err := s.Get(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if err := access.Authorize(access.AnimalUploadImage, caller, a.OwnerID); err != nil {
		return Animal{}, err
	}
	if s.media == nil {
		return Animal{}, apperr.Upload("media store not configured", nil)
	}

	key := path.Join(s.mediaPrefix, a.ID, fmt.Sprintf("%d-%s%s", slot, uuid.NewString(), path.Ext(img.Filename)))
	u, err := s.media.Put(ctx, media.Object{
		Key:         key,
		ContentType: img.ContentType,
		Size:        img.Size,
		Body:        img.Body,
	})
	if err != nil {
		return Animal{}, apperr.Upload("image upload failed", err)
	}

	a.Images[slot-1] = u
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// OwnerOf expone el dueño de un animal.
// Se usa para evitar ciclos de imports entre módulos (animals <-> petitions/decisions).
func (s *Service) OwnerOf(ctx context.Context, animalID string) (string, error) {
	a, err := s.Get(ctx, animalID)
	if err != nil {
		return "", err
	}
	return a.OwnerID, nil
}

func (s *Service) validate(a Animal) error {
	var problems []string

	if a.Name == "" {
		problems = append(problems, "name is required")
	} else if len([]rune(a.Name)) > maxNameLen {
		problems = append(problems, "name is too long")
	}
	if !a.Species.Valid() {
		problems = append(problems, "species must be dog or cat")
	}
	if !a.Gender.Valid() {
		problems = append(problems, "gender must be male or female")
	}
	if !a.Size.Valid() {
		problems = append(problems, "size must be small, medium or large")
	}
	if a.BirthDate.IsZero() {
		problems = append(problems, "birth_date is required")
	} else if a.BirthDate.After(s.now()) {
		problems = append(problems, "birth_date cannot be in the future")
	}
	if !a.ChildFriendly.Valid() {
		problems = append(problems, "invalid child_friendly")
	}
	if !a.PetCompatibility.Valid() {
		problems = append(problems, "invalid pet_compatibility")
	}
	if !a.SpaceSuitability.Valid() {
		problems = append(problems, "invalid space_suitability")
	}

	if len(problems) > 0 {
		return apperr.Validation(strings.Join(problems, "; "))
	}
	return nil
}

func normalizeImages(in []string) ([MaxImages]string, error) {
	var out [MaxImages]string
	if len(in) > MaxImages {
		return out, apperr.Validation("at most 4 images")
	}
	for i, raw := range in {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.ParseRequestURI(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return out, apperr.Validation(fmt.Sprintf("image %d must be an http(s) url", i+1))
		}
		out[i] = raw
	}
	return out, nil
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// IsNotFound simplifica el chequeo en otros módulos.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
