package animals

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"adopta-api/internal/middleware"
	"adopta-api/internal/platform/apperr"
	"adopta-api/internal/platform/respond"
	"adopta-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 10 << 20

// Feed resuelve el listado según quién pregunta (ver paquete feed).
type Feed interface {
	List(ctx context.Context, viewer *auth.Principal, c Criteria) ([]Animal, error)
}

func RegisterRoutes(r chi.Router, svc *Service, feed Feed) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Get("/", listAnimalsHandler(feed))
		ar.Post("/", createAnimalHandler(svc))

		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Patch("/{animalID}", updateAnimalHandler(svc))
		ar.Delete("/{animalID}", deleteAnimalHandler(svc))

		// Subida de imagen a un slot (1..4)
		ar.Put("/{animalID}/images/{slot}", uploadImageHandler(svc))
	})
}

type createAnimalRequest struct {
	Name             string   `json:"name"`
	Species          string   `json:"species"`
	Gender           string   `json:"gender"`
	BirthDate        string   `json:"birth_date"` // YYYY-MM-DD
	Size             string   `json:"size"`
	Breed            string   `json:"breed"`
	Temperament      string   `json:"temperament"`
	History          string   `json:"history"`
	ChildFriendly    string   `json:"child_friendly"`
	PetCompatibility string   `json:"pet_compatibility"`
	SpaceSuitability string   `json:"space_suitability"`
	Sterilized       bool     `json:"sterilized"`
	HasHealthIssues  bool     `json:"has_health_issues"`
	HealthNotes      string   `json:"health_notes"`
	Images           []string `json:"images"`
}

type updateAnimalRequest struct {
	Name             *string  `json:"name"`
	Species          *string  `json:"species"`
	Gender           *string  `json:"gender"`
	BirthDate        *string  `json:"birth_date"`
	Size             *string  `json:"size"`
	Breed            *string  `json:"breed"`
	Temperament      *string  `json:"temperament"`
	History          *string  `json:"history"`
	ChildFriendly    *string  `json:"child_friendly"`
	PetCompatibility *string  `json:"pet_compatibility"`
	SpaceSuitability *string  `json:"space_suitability"`
	Sterilized       *bool    `json:"sterilized"`
	HasHealthIssues  *bool    `json:"has_health_issues"`
	HealthNotes      *string  `json:"health_notes"`
	Images           []string `json:"images"`
}

type animalResponse struct {
	ID               string           `json:"id"`
	OwnerID          string           `json:"owner_id"`
	OwnerProvince    string           `json:"owner_province"`
	Name             string           `json:"name"`
	Species          Species          `json:"species"`
	Gender           Gender           `json:"gender"`
	BirthDate        string           `json:"birth_date"`
	Size             Size             `json:"size"`
	Breed            string           `json:"breed"`
	Temperament      string           `json:"temperament"`
	History          string           `json:"history"`
	ChildFriendly    ChildFriendly    `json:"child_friendly"`
	PetCompatibility PetCompatibility `json:"pet_compatibility"`
	SpaceSuitability SpaceSuitability `json:"space_suitability"`
	Sterilized       bool             `json:"sterilized"`
	HasHealthIssues  bool             `json:"has_health_issues"`
	HealthNotes      string           `json:"health_notes"`
	Images           []string         `json:"images"`
	Status           Status           `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// listAnimalsHandler godoc
// @Summary Feed de animales
// @Description Protectora: todos sus animales. Adoptante: NOT_ADOPTED de su provincia sin los ya decididos. Anónimo: todos los NOT_ADOPTED.
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, COMPANY o INDIVIDUAL"
// @Param X-Debug-Province header string false "Solo en modo dev, provincia del principal"
// @Param Authorization header string false "Bearer token en producción"
// @Param species query string false "dog | cat"
// @Param size query string false "small | medium | large"
// @Param gender query string false "male | female"
// @Success 200 {array} animalResponse
// @Failure 400 {object} respond.ErrorBody "filtro inválido"
// @Router /animals [get]
func listAnimalsHandler(feed Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := parseCriteria(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		items, err := feed.List(r.Context(), middleware.Principal(r.Context()), c)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// createAnimalHandler godoc
// @Summary Publicar animal
// @Description Solo COMPANY. El animal nace con status NOT_ADOPTED.
// @Tags animals
// @Accept json
// @Produce json
// @Param payload body createAnimalRequest true "Ficha; birth_date en formato YYYY-MM-DD"
// @Success 201 {object} animalResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 401 {object} respond.ErrorBody
// @Failure 403 {object} respond.ErrorBody
// @Router /animals [post]
func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Fail(w, r, apperr.KindValidation, "invalid json")
			return
		}

		var bd time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				respond.Fail(w, r, apperr.KindValidation, "birth_date must be YYYY-MM-DD")
				return
			}
			bd = t
		}

		a, err := svc.Create(r.Context(), middleware.Principal(r.Context()), CreateInput{
			Name:             req.Name,
			Species:          req.Species,
			Gender:           req.Gender,
			BirthDate:        bd,
			Size:             req.Size,
			Breed:            req.Breed,
			Temperament:      req.Temperament,
			History:          req.History,
			ChildFriendly:    req.ChildFriendly,
			PetCompatibility: req.PetCompatibility,
			SpaceSuitability: req.SpaceSuitability,
			Sterilized:       req.Sterilized,
			HasHealthIssues:  req.HasHealthIssues,
			HealthNotes:      req.HealthNotes,
			Images:           req.Images,
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.JSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

// getAnimalHandler godoc
// @Summary Ficha de un animal
// @Tags animals
// @Produce json
// @Param animalID path string true "ID del animal"
// @Success 200 {object} animalResponse
// @Failure 404 {object} respond.ErrorBody
// @Router /animals/{animalID} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetFor(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "animalID"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// updateAnimalHandler godoc
// @Summary Editar ficha
// @Description Solo la protectora dueña. El campo status no se acepta (400).
// @Tags animals
// @Accept json
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param payload body updateAnimalRequest true "Campos a modificar"
// @Success 200 {object} animalResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 403 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /animals/{animalID} [patch]
func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Decodificamos a map primero para detectar presencia de "status".
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			respond.Fail(w, r, apperr.KindValidation, "invalid json")
			return
		}

		var req updateAnimalRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				respond.Fail(w, r, apperr.KindValidation, "invalid json")
				return
			}
		}

		in := UpdateInput{
			Name:             req.Name,
			Species:          req.Species,
			Gender:           req.Gender,
			Size:             req.Size,
			Breed:            req.Breed,
			Temperament:      req.Temperament,
			History:          req.History,
			ChildFriendly:    req.ChildFriendly,
			PetCompatibility: req.PetCompatibility,
			SpaceSuitability: req.SpaceSuitability,
			Sterilized:       req.Sterilized,
			HasHealthIssues:  req.HasHealthIssues,
			HealthNotes:      req.HealthNotes,
			Images:           req.Images,
		}
		_, in.StatusPresent = raw["status"]

		if req.BirthDate != nil {
			t, err := time.Parse("2006-01-02", *req.BirthDate)
			if err != nil {
				respond.Fail(w, r, apperr.KindValidation, "birth_date must be YYYY-MM-DD")
				return
			}
			in.BirthDate = &t
		}

		a, err := svc.Update(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "animalID"), in)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// deleteAnimalHandler godoc
// @Summary Borrar animal
// @Tags animals
// @Param animalID path string true "ID del animal"
// @Success 204
// @Failure 403 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /animals/{animalID} [delete]
func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "animalID")); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.NoContent(w)
	}
}

// uploadImageHandler godoc
// @Summary Subir imagen
// @Description Multipart con campo `file`. Guarda la URL devuelta por el media store en el slot indicado.
// @Tags animals
// @Accept mpfd
// @Produce json
// @Param animalID path string true "ID del animal"
// @Param slot path int true "Slot 1..4"
// @Param file formData file true "Imagen"
// @Success 200 {object} animalResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 502 {object} respond.ErrorBody "fallo del media store"
// @Router /animals/{animalID}/images/{slot} [put]
func uploadImageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
		if err != nil {
			respond.Error(w, r, ErrImageSlot)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respond.Fail(w, r, apperr.KindValidation, "invalid multipart form")
			return
		}
		file, hdr, err := r.FormFile("file")
		if err != nil {
			respond.Fail(w, r, apperr.KindValidation, "file is required")
			return
		}
		defer file.Close()

		ct := hdr.Header.Get("Content-Type")
		if ct == "" || ct == "application/octet-stream" {
			ct = mime.TypeByExtension(path.Ext(hdr.Filename))
		}

		a, err := svc.UploadImage(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "animalID"), slot, ImageUpload{
			Filename:    hdr.Filename,
			ContentType: ct,
			Size:        hdr.Size,
			Body:        file,
		})
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func parseCriteria(r *http.Request) (Criteria, error) {
	q := r.URL.Query()
	var c Criteria

	if v := strings.TrimSpace(q.Get("species")); v != "" {
		c.Species = Species(v)
		if !c.Species.Valid() {
			return Criteria{}, apperr.Validation("species must be dog or cat")
		}
	}
	if v := strings.TrimSpace(q.Get("size")); v != "" {
		c.Size = Size(v)
		if !c.Size.Valid() {
			return Criteria{}, apperr.Validation("size must be small, medium or large")
		}
	}
	if v := strings.TrimSpace(q.Get("gender")); v != "" {
		c.Gender = Gender(v)
		if !c.Gender.Valid() {
			return Criteria{}, apperr.Validation("gender must be male or female")
		}
	}
	return c, nil
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:               a.ID,
		OwnerID:          a.OwnerID,
		OwnerProvince:    a.OwnerProvince,
		Name:             a.Name,
		Species:          a.Species,
		Gender:           a.Gender,
		BirthDate:        a.BirthDate.Format("2006-01-02"),
		Size:             a.Size,
		Breed:            a.Breed,
		Temperament:      a.Temperament,
		History:          a.History,
		ChildFriendly:    a.ChildFriendly,
		PetCompatibility: a.PetCompatibility,
		SpaceSuitability: a.SpaceSuitability,
		Sterilized:       a.Sterilized,
		HasHealthIssues:  a.HasHealthIssues,
		HealthNotes:      a.HealthNotes,
		Images:           a.Images[:],
		Status:           a.Status,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
