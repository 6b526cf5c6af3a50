package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New("test")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/animals/{animalID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/animals/"+id, nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues("test", http.MethodGet, "/animals/{animalID}", "404"))
	assert.Equal(t, float64(3), got)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.statusCategory.WithLabelValues("test", "4xx")))
}

func TestDomainCounters_NilSafe(t *testing.T) {
	var m *Recorder
	m.PetitionTransition("ACCEPTED")
	m.DecisionRecorded("IGNORE")
	m.NotificationFailed("petition.created")

	real := New("test")
	real.PetitionTransition("ACCEPTED")
	real.PetitionTransition("ACCEPTED")
	assert.Equal(t, float64(2), testutil.ToFloat64(real.petitionTransitions.WithLabelValues("test", "ACCEPTED")))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	m := New("test")
	m.DecisionRecorded("REQUEST")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "adoption_decisions_total")
}
