package decisions

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
	r.Route("/decisions", func(dr chi.Router) {
		dr.Get("/", listDecisionsHandler(svc))
		dr.Put("/", recordDecisionHandler(svc))
		dr.Delete("/ignored", resetIgnoredHandler(svc))
	})
}

type recordDecisionRequest struct {
	AnimalID string `json:"animal_id"`
	Kind     string `json:"kind"` // REQUEST | IGNORE
}

type decisionResponse struct {
	ID        string    `json:"id"`
	AnimalID  string    `json:"animal_id"`
	Kind      Kind      `json:"kind"`
	DecidedAt time.Time `json:"decided_at"`
}

type resetResponse struct {
	Deleted int `json:"deleted"`
}

// recordDecisionHandler godoc
// @Summary Registrar swipe
// @Description Solo INDIVIDUAL. Reemplaza la decisión previa sobre el mismo animal.
// @Tags decisions
// @Accept json
// @Produce json
// @Param payload body recordDecisionRequest true "animal_id + kind"
// @Success 200 {object} decisionResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 403 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /decisions [put]
func recordDecisionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordDecisionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, r, apperr.KindValidation, "invalid json")
			return
		}
		kind, ok := ParseKind(req.Kind)
		if !ok {
			respond.Error(w, r, ErrInvalidKind)
			return
		}

		d, err := svc.Record(r.Context(), middleware.Principal(r.Context()), req.AnimalID, kind)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toDecisionResponse(d))
	}
}

// listDecisionsHandler godoc
// @Summary Mis decisiones
// @Tags decisions
// @Produce json
// @Success 200 {array} decisionResponse
// @Failure 401 {object} respond.ErrorBody
// @Failure 403 {object} respond.ErrorBody
// @Router /decisions [get]
func listDecisionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListMine(r.Context(), middleware.Principal(r.Context()))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		out := make([]decisionResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDecisionResponse(d))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// resetIgnoredHandler godoc
// @Summary Reiniciar ignorados
// @Description Borra todos los IGNORE del adoptante; esos animales vuelven a su feed.
// @Tags decisions
// @Produce json
// @Success 200 {object} resetResponse
// @Failure 403 {object} respond.ErrorBody
// @Router /decisions/ignored [delete]
func resetIgnoredHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.ResetIgnored(r.Context(), middleware.Principal(r.Context()))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, resetResponse{Deleted: n})
	}
}

func toDecisionResponse(d Decision) decisionResponse {
	return decisionResponse{
		ID:        d.ID,
		AnimalID:  d.AnimalID,
		Kind:      d.Kind,
		DecidedAt: d.DecidedAt,
	}
}
