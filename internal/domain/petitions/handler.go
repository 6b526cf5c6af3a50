package petitions

import (
	"encoding/json"
	"net/http"
	"time"

	"adopta-api/internal/middleware"
	"adopta-api/internal/platform/apperr"
	"adopta-api/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/petitions", func(pr chi.Router) {
		pr.Get("/", listPetitionsHandler(svc))
		pr.Post("/", createPetitionHandler(svc))

		// Vistas por status (solo protectoras)
		pr.Get("/groups/{group}", listGroupHandler(svc))

		pr.Get("/{petitionID}", getPetitionHandler(svc))
		pr.Patch("/{petitionID}", updatePetitionHandler(svc))
		pr.Delete("/{petitionID}", deletePetitionHandler(svc))
		pr.Post("/{petitionID}/complete", completeAdoptionHandler(svc))
	})
}

type createPetitionRequest struct {
	AnimalID string `json:"animal_id"`
}

type updatePetitionRequest struct {
	Status *string `json:"status"` // PENDING | ACCEPTED | REJECTED
	Read   *bool   `json:"read"`
}

type petitionAnimal struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date,omitempty"`
	OwnerID   string `json:"owner_id"`
}

type petitionResponse struct {
	ID        string         `json:"id"`
	AnimalID  string         `json:"animal_id"`
	UserID    string         `json:"user_id"`
	Status    Status         `json:"status"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Animal    petitionAnimal `json:"animal"`
}

// createPetitionHandler godoc
// @Summary Solicitar adopción
// @Description Solo INDIVIDUAL; el animal debe estar NOT_ADOPTED. Una sola petición por animal y usuario (409).
// @Tags petitions
// @Accept json
// @Produce json
// @Param payload body createPetitionRequest true "Animal a adoptar"
// @Success 201 {object} petitionResponse
// @Failure 400 {object} respond.ErrorBody "animal no disponible"
// @Failure 403 {object} respond.ErrorBody
// @Failure 409 {object} respond.ErrorBody
// @Router /petitions [post]
func createPetitionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, r, apperr.KindValidation, "invalid json")
			return
		}

		p, err := svc.Create(r.Context(), middleware.Principal(r.Context()), req.AnimalID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, toPetitionResponse(p))
	}
}

// listPetitionsHandler godoc
// @Summary Listar peticiones
// @Description INDIVIDUAL: las propias. COMPANY: las de sus animales.
// @Tags petitions
// @Produce json
// @Param animal query string false "Filtrar por ID de animal"
// @Param ordering query string false "[-]created_at | animal_name | animal_birth_date (default -created_at)"
// @Success 200 {array} petitionResponse
// @Failure 401 {object} respond.ErrorBody
// @Router /petitions [get]
func listPetitionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListFor(r.Context(), middleware.Principal(r.Context()), listFilterFrom(r))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetitionResponses(items))
	}
}

// listGroupHandler godoc
// @Summary Peticiones por grupo de status
// @Description Solo COMPANY. default = PENDING+ACCEPTED.
// @Tags petitions
// @Produce json
// @Param group path string true "default | rejected | accepted | pending"
// @Param animal query string false "Filtrar por ID de animal"
// @Param ordering query string false "[-]created_at | animal_name | animal_birth_date"
// @Success 200 {array} petitionResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 403 {object} respond.ErrorBody
// @Router /petitions/groups/{group} [get]
func listGroupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		group := Group(chi.URLParam(r, "group"))
		items, err := svc.ListByStatusGroup(r.Context(), middleware.Principal(r.Context()), group, listFilterFrom(r))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetitionResponses(items))
	}
}

// getPetitionHandler godoc
// @Summary Detalle de petición
// @Tags petitions
// @Produce json
// @Param petitionID path string true "ID de la petición"
// @Success 200 {object} petitionResponse
// @Failure 404 {object} respond.ErrorBody
// @Router /petitions/{petitionID} [get]
func getPetitionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "petitionID"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetitionResponse(p))
	}
}

// updatePetitionHandler godoc
// @Summary Resolver petición
// @Description Solo la protectora dueña del animal (otra protectora recibe 403). ACCEPTED pasa el animal a IN_PROCESS de forma atómica. Una petición ya resuelta no cambia de status.
// @Tags petitions
// @Accept json
// @Produce json
// @Param petitionID path string true "ID de la petición"
// @Param payload body updatePetitionRequest true "status y/o read"
// @Success 200 {object} petitionResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 403 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /petitions/{petitionID} [patch]
func updatePetitionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePetitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, r, apperr.KindValidation, "invalid json")
			return
		}

		in := UpdateInput{Read: req.Read}
		if req.Status != nil {
			st, ok := ParseStatus(*req.Status)
			if !ok {
				respond.Error(w, r, ErrInvalidStatus)
				return
			}
			in.Status = &st
		}

		p, err := svc.UpdateStatus(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "petitionID"), in)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetitionResponse(p))
	}
}

// completeAdoptionHandler godoc
// @Summary Completar adopción
// @Description Solo la protectora dueña; la petición debe estar ACCEPTED. El animal pasa a ADOPTED.
// @Tags petitions
// @Produce json
// @Param petitionID path string true "ID de la petición"
// @Success 200 {object} petitionResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 403 {object} respond.ErrorBody
// @Router /petitions/{petitionID}/complete [post]
func completeAdoptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.CompleteAdoption(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "petitionID"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetitionResponse(p))
	}
}

// deletePetitionHandler godoc
// @Summary Cancelar petición
// @Description Solo quien la creó y solo mientras esté PENDING.
// @Tags petitions
// @Param petitionID path string true "ID de la petición"
// @Success 204
// @Failure 400 {object} respond.ErrorBody "petición ya procesada"
// @Failure 403 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /petitions/{petitionID} [delete]
func deletePetitionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "petitionID")); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.NoContent(w)
	}
}

func listFilterFrom(r *http.Request) ListFilter {
	q := r.URL.Query()
	return ListFilter{
		AnimalID: q.Get("animal"),
		Ordering: q.Get("ordering"),
	}
}

func toPetitionResponses(items []Petition) []petitionResponse {
	out := make([]petitionResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPetitionResponse(p))
	}
	return out
}

func toPetitionResponse(p Petition) petitionResponse {
	pa := petitionAnimal{
		ID:      p.AnimalID,
		Name:    p.Animal.Name,
		OwnerID: p.Animal.OwnerID,
	}
	if !p.Animal.BirthDate.IsZero() {
		pa.BirthDate = p.Animal.BirthDate.Format("2006-01-02")
	}
	return petitionResponse{
		ID:        p.ID,
		AnimalID:  p.AnimalID,
		UserID:    p.UserID,
		Status:    p.Status,
		Read:      p.Read,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Animal:    pa,
	}
}
