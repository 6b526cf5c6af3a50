package decisions

import (
	"context"
	"strings"
	"time"

	"adopta-api/internal/domain/access"
	"adopta-api/internal/platform/apperr"
	"adopta-api/internal/platform/metrics"
	"adopta-api/internal/ports/auth"

	"github.com/google/uuid"
)

var ErrInvalidKind = apperr.Validation("kind must be REQUEST or IGNORE")

// AnimalLookup evita importar animals.Service directamente.
type AnimalLookup interface {
	OwnerOf(ctx context.Context, animalID string) (string, error)
}

type Service struct {
	repo    Repository
	animals AnimalLookup
	metrics *metrics.Recorder
	now     func() time.Time
}

func NewService(repo Repository, animals AnimalLookup, m *metrics.Recorder) *Service {
	return &Service{
		repo:    repo,
		animals: animals,
		metrics: m,
		now:     time.Now,
	}
}

func (s *Service) Record(ctx context.Context, caller *auth.Principal, animalID string, kind Kind) (Decision, error) {
	if err := access.Require(access.DecisionRecord, caller); err != nil {
		return Decision{}, err
	}
	if !kind.Valid() {
		return Decision{}, ErrInvalidKind
	}
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return Decision{}, apperr.Validation("animal_id is required")
	}
	if _, err := s.animals.OwnerOf(ctx, animalID); err != nil {
		return Decision{}, err
	}

	d, err := s.repo.Upsert(ctx, Decision{
		ID:        uuid.NewString(),
		UserID:    caller.UserID,
		AnimalID:  animalID,
		Kind:      kind,
		DecidedAt: s.now(),
	})
	if err != nil {
		return Decision{}, err
	}

	s.metrics.DecisionRecorded(string(kind))
	return d, nil
}

// ResetIgnored borra todos los IGNORE del caller y devuelve cuántos.
func (s *Service) ResetIgnored(ctx context.Context, caller *auth.Principal) (int, error) {
	if err := access.Require(access.DecisionReset, caller); err != nil {
		return 0, err
	}
	return s.repo.DeleteByKind(ctx, caller.UserID, KindIgnore)
}

func (s *Service) ListMine(ctx context.Context, caller *auth.Principal) ([]Decision, error) {
	if err := access.Require(access.DecisionList, caller); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, caller.UserID)
}

// ListDecidedAnimalIDs alimenta la exclusión del feed.
func (s *Service) ListDecidedAnimalIDs(ctx context.Context, userID string) ([]string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}
	return s.repo.ListAnimalIDs(ctx, userID)
}
