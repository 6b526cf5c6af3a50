package petitions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"adopta-api/internal/domain/access"
	"adopta-api/internal/domain/animals"
	"adopta-api/internal/platform/apperr"
	"adopta-api/internal/platform/logger"
	"adopta-api/internal/platform/metrics"
	"adopta-api/internal/ports/auth"
	"adopta-api/internal/ports/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound          = apperr.NotFound("petition not found")
	ErrDuplicate         = apperr.Conflict("a petition for this animal already exists")
	ErrAnimalUnavailable = apperr.Validation("animal is not available for adoption")
	ErrAlreadyProcessed  = apperr.Validation("cannot cancel a processed petition")
	ErrTerminal          = apperr.Validation("petition already processed; status cannot change")
	ErrInvalidStatus     = apperr.Validation("status must be PENDING, ACCEPTED or REJECTED")
	ErrNotAccepted       = apperr.Validation("only an accepted petition can complete an adoption")
	ErrUnknownGroup      = apperr.Validation("group must be default, rejected, accepted or pending")
	ErrEmptyUpdate       = apperr.Validation("nothing to update")
)

const (
	TopicCreated       = "petition.created"
	TopicStatusChanged = "petition.status_changed"
	TopicCompleted     = "petition.adoption_completed"
)

// AnimalReader evita depender de *animals.Service.
type AnimalReader interface {
	Get(ctx context.Context, id string) (animals.Animal, error)
}

type Service struct {
	repo    Repository
	animals AnimalReader
	sink    notify.Sink
	metrics *metrics.Recorder
	now     func() time.Time
}

func NewService(repo Repository, animalReader AnimalReader, sink notify.Sink, m *metrics.Recorder) *Service {
	return &Service{
		repo:    repo,
		animals: animalReader,
		sink:    sink,
		metrics: m,
		now:     time.Now,
	}
}

func (s *Service) Create(ctx context.Context, caller *auth.Principal, animalID string) (Petition, error) {
	if err := access.Require(access.PetitionCreate, caller); err != nil {
		return Petition{}, err
	}
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return Petition{}, apperr.Validation("animal_id is required")
	}

	a, err := s.animals.Get(ctx, animalID)
	if err != nil {
		return Petition{}, err
	}
	if a.Status != animals.StatusNotAdopted {
		return Petition{}, ErrAnimalUnavailable
	}

	now := s.now()
	p := Petition{
		ID:        uuid.NewString(),
		AnimalID:  a.ID,
		UserID:    caller.UserID,
		Status:    StatusPending,
		Read:      false,
		CreatedAt: now,
		UpdatedAt: now,
		Animal:    summaryOf(a),
	}

	// La unicidad (user, animal) la garantiza el store.
	if err := s.repo.Create(ctx, p); err != nil {
		return Petition{}, err
	}

	s.metrics.PetitionTransition(string(StatusPending))
	s.notify(ctx, notify.Message{
		Topic:     TopicCreated,
		Recipient: a.OwnerID,
		Subject:   fmt.Sprintf("Nueva petición de adopción para %s", a.Name),
		Body:      fmt.Sprintf("Un adoptante ha solicitado adoptar a %s.", a.Name),
		Meta:      map[string]string{"petition_id": p.ID, "animal_id": a.ID},
	})
	return p, nil
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	Status *Status
	Read   *bool
}

// UpdateStatus lo ejecuta la protectora dueña del animal.
// Solo PENDING puede cambiar de status; el flag de leída se puede tocar
// siempre. ACCEPTED pasa el animal a IN_PROCESS en la misma transacción.
func (s *Service) UpdateStatus(ctx context.Context, caller *auth.Principal, id string, in UpdateInput) (Petition, error) {
	if err := access.Require(access.PetitionUpdate, caller); err != nil {
		return Petition{}, err
	}
	if in.Status == nil && in.Read == nil {
		return Petition{}, ErrEmptyUpdate
	}
	if in.Status != nil && !in.Status.Valid() {
		return Petition{}, ErrInvalidStatus
	}

	tx, err := s.repo.BeginStatusChange(ctx)
	if err != nil {
		return Petition{}, err
	}
	defer tx.Rollback()

	p, err := tx.GetPetition(ctx, id)
	if err != nil {
		return Petition{}, err
	}
	a, err := tx.GetAnimal(ctx, p.AnimalID)
	if err != nil {
		return Petition{}, err
	}
	// Dueño distinto => 403, nunca 404.
	if err := access.Authorize(access.PetitionUpdate, caller, a.OwnerID); err != nil {
		return Petition{}, err
	}

	statusChanged := false
	if in.Status != nil && *in.Status != p.Status {
		if p.Status.Terminal() {
			return Petition{}, ErrTerminal
		}
		if *in.Status == StatusAccepted {
			if a.Status != animals.StatusNotAdopted {
				return Petition{}, ErrAnimalUnavailable
			}
			if _, err := animals.CheckTransition(a.Status, animals.StatusInProcess); err != nil {
				return Petition{}, err
			}
			if err := tx.UpdateAnimalStatus(ctx, a.ID, animals.StatusInProcess); err != nil {
				return Petition{}, err
			}
			a.Status = animals.StatusInProcess
		}
		p.Status = *in.Status
		statusChanged = true
	}
	if in.Read != nil {
		p.Read = *in.Read
	}

	p.UpdatedAt = s.now()
	if err := tx.UpdatePetition(ctx, p); err != nil {
		return Petition{}, err
	}
	if err := tx.Commit(); err != nil {
		return Petition{}, err
	}

	p.Animal = summaryOf(a)
	if statusChanged {
		s.metrics.PetitionTransition(string(p.Status))
		s.notify(ctx, notify.Message{
			Topic:     TopicStatusChanged,
			Recipient: p.UserID,
			Subject:   fmt.Sprintf("Tu petición para %s ha cambiado", a.Name),
			Body:      fmt.Sprintf("Estado actual: %s", p.Status),
			Meta:      map[string]string{"petition_id": p.ID, "animal_id": a.ID, "status": string(p.Status)},
		})
	}
	return p, nil
}

// CompleteAdoption cierra una petición ACCEPTED: el animal pasa a ADOPTED.
// Es el único camino hacia ADOPTED. Idempotente.
func (s *Service) CompleteAdoption(ctx context.Context, caller *auth.Principal, id string) (Petition, error) {
	if err := access.Require(access.PetitionComplete, caller); err != nil {
		return Petition{}, err
	}

	tx, err := s.repo.BeginStatusChange(ctx)
	if err != nil {
		return Petition{}, err
	}
	defer tx.Rollback()

	p, err := tx.GetPetition(ctx, id)
	if err != nil {
		return Petition{}, err
	}
	a, err := tx.GetAnimal(ctx, p.AnimalID)
	if err != nil {
		return Petition{}, err
	}
	if err := access.Authorize(access.PetitionComplete, caller, a.OwnerID); err != nil {
		return Petition{}, err
	}
	if p.Status != StatusAccepted {
		return Petition{}, ErrNotAccepted
	}

	changed, err := animals.CheckTransition(a.Status, animals.StatusAdopted)
	if err != nil {
		return Petition{}, err
	}
	if !changed {
		p.Animal = summaryOf(a)
		return p, nil
	}
	if err := tx.UpdateAnimalStatus(ctx, a.ID, animals.StatusAdopted); err != nil {
		return Petition{}, err
	}
	p.UpdatedAt = s.now()
	if err := tx.UpdatePetition(ctx, p); err != nil {
		return Petition{}, err
	}
	if err := tx.Commit(); err != nil {
		return Petition{}, err
	}

	p.Animal = summaryOf(a)
	s.notify(ctx, notify.Message{
		Topic:     TopicCompleted,
		Recipient: p.UserID,
		Subject:   fmt.Sprintf("¡%s ya es parte de tu familia!", a.Name),
		Body:      "La protectora ha completado la adopción.",
		Meta:      map[string]string{"petition_id": p.ID, "animal_id": a.ID},
	})
	return p, nil
}

// Delete cancela una petición propia mientras siga PENDING.
func (s *Service) Delete(ctx context.Context, caller *auth.Principal, id string) error {
	if err := access.Require(access.PetitionDelete, caller); err != nil {
		return err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := access.Authorize(access.PetitionDelete, caller, p.UserID); err != nil {
		return err
	}
	if p.Status != StatusPending {
		return ErrAlreadyProcessed
	}
	return s.repo.DeletePending(ctx, p.ID)
}

// Get devuelve una petición dentro del alcance del caller; fuera => 404.
func (s *Service) Get(ctx context.Context, caller *auth.Principal, id string) (Petition, error) {
	if err := access.Require(access.PetitionList, caller); err != nil {
		return Petition{}, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Petition{}, err
	}
	if !inScope(caller, p) {
		return Petition{}, ErrNotFound
	}
	return p, nil
}

type ListFilter struct {
	AnimalID string
	Ordering string
}

func (s *Service) ListFor(ctx context.Context, caller *auth.Principal, f ListFilter) ([]Petition, error) {
	if err := access.Require(access.PetitionList, caller); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scopedQuery(caller, f, nil))
}

func (s *Service) ListByStatusGroup(ctx context.Context, caller *auth.Principal, group Group, f ListFilter) ([]Petition, error) {
	if err := access.Require(access.PetitionGroups, caller); err != nil {
		return nil, err
	}
	statuses, ok := group.Statuses()
	if !ok {
		return nil, ErrUnknownGroup
	}
	return s.repo.List(ctx, scopedQuery(caller, f, statuses))
}

func scopedQuery(caller *auth.Principal, f ListFilter, statuses []Status) ListQuery {
	q := ListQuery{
		AnimalID: strings.TrimSpace(f.AnimalID),
		Statuses: statuses,
		Order:    ParseOrdering(f.Ordering),
	}
	if caller.IsCompany() {
		q.CompanyID = caller.UserID
	} else {
		q.UserID = caller.UserID
	}
	return q
}

func inScope(caller *auth.Principal, p Petition) bool {
	if caller.IsCompany() {
		return p.Animal.OwnerID == caller.UserID
	}
	return p.UserID == caller.UserID
}

// notify es fire-and-forget: el fallo se loguea y no revierte nada.
func (s *Service) notify(ctx context.Context, msg notify.Message) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Send(ctx, msg); err != nil {
		s.metrics.NotificationFailed(msg.Topic)
		logger.FromContext(ctx).Warn("notification failed",
			zap.String("topic", msg.Topic),
			zap.String("recipient", msg.Recipient),
			zap.Error(err),
		)
	}
}

func summaryOf(a animals.Animal) AnimalSummary {
	return AnimalSummary{Name: a.Name, BirthDate: a.BirthDate, OwnerID: a.OwnerID}
}
