// Package respond concentra la escritura de respuestas JSON y el mapeo
// de apperr.Kind a status HTTP que antes se repetía en cada handler.
package respond

import (
	"encoding/json"
	"net/http"

	"adopta-api/internal/platform/apperr"
	"adopta-api/internal/platform/logger"

	"go.uber.org/zap"
)

// ErrorBody es el formato de error de toda la API.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error escribe err con el status que le corresponde a su Kind.
// Los errores internos se loguean con el logger del request.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := StatusFor(kind)

	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}

	JSON(w, status, ErrorBody{Error: ErrorDetail{Kind: kind, Message: apperr.MessageOf(err)}})
}

// Fail es un atajo para errores de transporte (json inválido, params).
func Fail(w http.ResponseWriter, r *http.Request, kind apperr.Kind, msg string) {
	Error(w, r, apperr.New(kind, msg))
}

func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUpload:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
