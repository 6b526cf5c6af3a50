package feed

import (
	"context"

	"adopta-api/internal/domain/animals"
	"adopta-api/internal/ports/auth"
)

// AnimalLister es la parte del registro que usa el feed.
type AnimalLister interface {
	List(ctx context.Context, f animals.ListFilter) ([]animals.Animal, error)
}

// DecisionLog provee los animales ya decididos por un adoptante.
type DecisionLog interface {
	ListDecidedAnimalIDs(ctx context.Context, userID string) ([]string, error)
}

type Service struct {
	animals   AnimalLister
	decisions DecisionLog
}

func NewService(animalLister AnimalLister, decisions DecisionLog) *Service {
	return &Service{animals: animalLister, decisions: decisions}
}

// FilterFor traduce el viewer a un ListFilter:
//   - Company: todos sus animales, cualquier status.
//   - Individual: NOT_ADOPTED de su provincia, sin los ya decididos.
//   - Anonymous: todos los NOT_ADOPTED.
func (s *Service) FilterFor(ctx context.Context, v Viewer) (animals.ListFilter, error) {
	switch v.Kind {
	case Company:
		return animals.ListFilter{OwnerID: v.Principal.UserID}, nil

	case Individual:
		decided, err := s.decisions.ListDecidedAnimalIDs(ctx, v.Principal.UserID)
		if err != nil {
			return animals.ListFilter{}, err
		}
		return animals.ListFilter{
			Statuses:      []animals.Status{animals.StatusNotAdopted},
			OwnerProvince: v.Principal.Province,
			ExcludeIDs:    decided,
		}, nil

	default:
		return animals.ListFilter{Statuses: []animals.Status{animals.StatusNotAdopted}}, nil
	}
}

// List implementa animals.Feed.
func (s *Service) List(ctx context.Context, viewer *auth.Principal, c animals.Criteria) ([]animals.Animal, error) {
	v := ViewerOf(viewer)

	// Un adoptante sin provincia no puede matchear ninguna protectora.
	if v.Kind == Individual && v.Principal.Province == "" {
		return []animals.Animal{}, nil
	}

	f, err := s.FilterFor(ctx, v)
	if err != nil {
		return nil, err
	}
	f.Species = c.Species
	f.Size = c.Size
	f.Gender = c.Gender

	return s.animals.List(ctx, f)
}
