package petitions_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"adopta-api/internal/adapters/storage/memory"
	"adopta-api/internal/domain/access"
	"adopta-api/internal/domain/animals"
	"adopta-api/internal/domain/petitions"
	"adopta-api/internal/platform/metrics"
	"adopta-api/internal/ports/auth"
	"adopta-api/internal/ports/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	company = &auth.Principal{UserID: "c-1", Role: auth.RoleCompany, Province: "Madrid"}
	rival   = &auth.Principal{UserID: "c-2", Role: auth.RoleCompany, Province: "Madrid"}
	ana     = &auth.Principal{UserID: "u-ana", Role: auth.RoleIndividual, Province: "Madrid"}
	bruno   = &auth.Principal{UserID: "u-bruno", Role: auth.RoleIndividual, Province: "Madrid"}
)

type fixture struct {
	animals   *animals.Service
	petitions *petitions.Service
	sink      *notify.MockSink
	metrics   *metrics.Recorder
}

// newFixture arma el módulo con repos in-memory compartidos y un sink mock.
// Por defecto el sink acepta cualquier mensaje.
func newFixture(t *testing.T, strictSink bool) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	sink := notify.NewMockSink(ctrl)
	if !strictSink {
		sink.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	}

	db := memory.NewDB()
	m := metrics.New("test")
	animalSvc := animals.NewService(memory.NewAnimalRepo(db))
	return fixture{
		animals:   animalSvc,
		petitions: petitions.NewService(memory.NewPetitionRepo(db), animalSvc, sink, m),
		sink:      sink,
		metrics:   m,
	}
}

func (f fixture) publish(t *testing.T, owner *auth.Principal, name string, born time.Time) animals.Animal {
	t.Helper()
	a, err := f.animals.Create(context.Background(), owner, animals.CreateInput{
		Name:      name,
		Species:   "dog",
		Gender:    "male",
		BirthDate: born,
		Size:      "small",
	})
	require.NoError(t, err)
	return a
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func statusPtr(s petitions.Status) *petitions.Status { return &s }
func boolPtr(b bool) *bool { return &b }

func TestCreate(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	a := f.publish(t, company, "Rex", day(2020, 1, 1))

	f.sink.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg notify.Message) error {
			assert.Equal(t, petitions.TopicCreated, msg.Topic)
			assert.Equal(t, company.UserID, msg.Recipient)
			assert.Equal(t, a.ID, msg.Meta["animal_id"])
			return nil
		})

	p, err := f.petitions.Create(ctx, ana, a.ID)
	require.NoError(t, err)
	assert.Equal(t, petitions.StatusPending, p.Status)
	assert.False(t, p.Read)
	assert.Equal(t, "Rex", p.Animal.Name)
	assert.Equal(t, company.UserID, p.Animal.OwnerID)

	t.Run("duplicate", func(t *testing.T) {
		_, err := f.petitions.Create(ctx, ana, a.ID)
		assert.ErrorIs(t, err, petitions.ErrDuplicate)
	})

	t.Run("company cannot petition", func(t *testing.T) {
		_, err := f.petitions.Create(ctx, company, a.ID)
		assert.ErrorIs(t, err, access.ErrWrongRole)
	})

	t.Run("unknown animal", func(t *testing.T) {
		_, err := f.petitions.Create(ctx, bruno, "nope")
		assert.ErrorIs(t, err, animals.ErrNotFound)
	})

	t.Run("animal not available", func(t *testing.T) {
		busy := f.publish(t, company, "Toby", day(2020, 1, 1))
		_, err := f.animals.TransitionStatus(ctx, busy.ID, animals.StatusInProcess)
		require.NoError(t, err)

		_, err = f.petitions.Create(ctx, bruno, busy.ID)
		assert.ErrorIs(t, err, petitions.ErrAnimalUnavailable)
	})
}

func TestAccept_MovesAnimalInProcess(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	a := f.publish(t, company, "Rex", day(2020, 1, 1))

	pa, err := f.petitions.Create(ctx, ana, a.ID)
	require.NoError(t, err)
	pb, err := f.petitions.Create(ctx, bruno, a.ID)
	require.NoError(t, err)

	got, err := f.petitions.UpdateStatus(ctx, company, pa.ID, petitions.UpdateInput{Status: statusPtr(petitions.StatusAccepted)})
	require.NoError(t, err)
	assert.Equal(t, petitions.StatusAccepted, got.Status)

	stored, err := f.animals.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, animals.StatusInProcess, stored.Status)

	// El animal ya no está disponible para otra aceptación.
	_, err = f.petitions.UpdateStatus(ctx, company, pb.ID, petitions.UpdateInput{Status: statusPtr(petitions.StatusAccepted)})
	assert.ErrorIs(t, err, petitions.ErrAnimalUnavailable)

	// Pero sí se puede rechazar.
	got, err = f.petitions.UpdateStatus(ctx, company, pb.ID, petitions.UpdateInput{Status: statusPtr(petitions.StatusRejected)})
	require.NoError(t, err)
	assert.Equal(t, petitions.StatusRejected, got.Status)
}

func TestUpdateStatus_Rules(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	a := f.publish(t, company, "Rex", day(2020, 1, 1))
	p, err := f.petitions.Create(ctx, ana, a.ID)
	require.NoError(t, err)

	t.Run("other company is forbidden", func(t *testing.T) {
		_, err := f.petitions.UpdateStatus(ctx, rival, p.ID, petitions.UpdateInput{Read: boolPtr(true)})
		assert.ErrorIs(t, err, access.ErrNotOwner)
	})

	t.Run("adopter cannot resolve", func(t *testing.T) {
		_, err := f.petitions.UpdateStatus(ctx, ana, p.ID, petitions.UpdateInput{Read: boolPtr(true)})
		assert.ErrorIs(t, err, access.ErrWrongRole)
	})

	t.Run("empty update", func(t *testing.T) {
		_, err := f.petitions.UpdateStatus(ctx, company, p.ID, petitions.UpdateInput{})
		assert.ErrorIs(t, err, petitions.ErrEmptyUpdate)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := f.petitions.UpdateStatus(ctx, company, p.ID, petitions.UpdateInput{Status: statusPtr("MAYBE")})
		assert.ErrorIs(t, err, petitions.ErrInvalidStatus)
	})

	t.Run("unknown petition", func(t *testing.T) {
		_, err := f.petitions.UpdateStatus(ctx, company, "nope", petitions.UpdateInput{Read: boolPtr(true)})
		assert.ErrorIs(t, err, petitions.ErrNotFound)
	})

	t.Run("mark read keeps status", func(t *testing.T) {
		got, err := f.petitions.UpdateStatus(ctx, company, p.ID, petitions.UpdateInput{Read: boolPtr(true)})
		require.NoError(t, err)
		assert.True(t, got.Read)
		assert.Equal(t, petitions.StatusPending, got.Status)
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		_, err := f.petitions.UpdateStatus(ctx, company, p.ID, petitions.UpdateInput{Status: statusPtr(petitions.StatusRejected)})
		require.NoError(t, err)

		_, err = f.petitions.UpdateStatus(ctx, company, p.ID, petitions.UpdateInput{Status: statusPtr(petitions.StatusAccepted)})
		assert.ErrorIs(t, err, petitions.ErrTerminal)

		// mismo status: no-op
		got, err := f.petitions.UpdateStatus(ctx, company, p.ID, petitions.UpdateInput{Status: statusPtr(petitions.StatusRejected)})
		require.NoError(t, err)
		assert.Equal(t, petitions.StatusRejected, got.Status)

		// el flag de leída sigue siendo editable
		got, err = f.petitions.UpdateStatus(ctx, company, p.ID, petitions.UpdateInput{Read: boolPtr(false)})
		require.NoError(t, err)
		assert.False(t, got.Read)

		stored, err := f.animals.Get(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, animals.StatusNotAdopted, stored.Status)
	})
}

func TestAccept_Concurrent(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	a := f.publish(t, company, "Rex", day(2020, 1, 1))

	const n = 8
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		adopter := &auth.Principal{UserID: "u-" + string(rune('a'+i)), Role: auth.RoleIndividual}
		p, err := f.petitions.Create(ctx, adopter, a.ID)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		failures []error
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.petitions.UpdateStatus(ctx, company, id, petitions.UpdateInput{Status: statusPtr(petitions.StatusAccepted)})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
				return
			}
			failures = append(failures, err)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	for _, err := range failures {
		assert.ErrorIs(t, err, petitions.ErrAnimalUnavailable)
	}

	list, err := f.petitions.ListByStatusGroup(ctx, company, petitions.GroupAccepted, petitions.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCompleteAdoption(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	a := f.publish(t, company, "Rex", day(2020, 1, 1))
	p, err := f.petitions.Create(ctx, ana, a.ID)
	require.NoError(t, err)

	_, err = f.petitions.CompleteAdoption(ctx, company, p.ID)
	assert.ErrorIs(t, err, petitions.ErrNotAccepted)

	_, err = f.petitions.UpdateStatus(ctx, company, p.ID, petitions.UpdateInput{Status: statusPtr(petitions.StatusAccepted)})
	require.NoError(t, err)

	_, err = f.petitions.CompleteAdoption(ctx, rival, p.ID)
	assert.ErrorIs(t, err, access.ErrNotOwner)

	got, err := f.petitions.CompleteAdoption(ctx, company, p.ID)
	require.NoError(t, err)
	assert.Equal(t, petitions.StatusAccepted, got.Status)

	stored, err := f.animals.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, animals.StatusAdopted, stored.Status)

	// idempotente
	_, err = f.petitions.CompleteAdoption(ctx, company, p.ID)
	require.NoError(t, err)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	a := f.publish(t, company, "Rex", day(2020, 1, 1))
	b := f.publish(t, company, "Luna", day(2020, 1, 1))

	pa, err := f.petitions.Create(ctx, ana, a.ID)
	require.NoError(t, err)
	pb, err := f.petitions.Create(ctx, ana, b.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.petitions.Delete(ctx, bruno, pa.ID), access.ErrNotOwner)
	assert.ErrorIs(t, f.petitions.Delete(ctx, company, pa.ID), access.ErrWrongRole)

	require.NoError(t, f.petitions.Delete(ctx, ana, pa.ID))
	_, err = f.petitions.Get(ctx, ana, pa.ID)
	assert.ErrorIs(t, err, petitions.ErrNotFound)

	// Tras borrar se puede volver a pedir.
	_, err = f.petitions.Create(ctx, ana, a.ID)
	require.NoError(t, err)

	_, err = f.petitions.UpdateStatus(ctx, company, pb.ID, petitions.UpdateInput{Status: statusPtr(petitions.StatusRejected)})
	require.NoError(t, err)
	assert.ErrorIs(t, f.petitions.Delete(ctx, ana, pb.ID), petitions.ErrAlreadyProcessed)
}

func TestList_ScopeGroupsAndOrdering(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	zeus := f.publish(t, company, "Zeus", day(2018, 1, 1))
	ares := f.publish(t, company, "ares", day(2022, 1, 1))
	mika := f.publish(t, rival, "Mika", day(2020, 1, 1))

	p1, err := f.petitions.Create(ctx, ana, zeus.ID)
	require.NoError(t, err)
	p2, err := f.petitions.Create(ctx, ana, ares.ID)
	require.NoError(t, err)
	_, err = f.petitions.Create(ctx, bruno, zeus.ID)
	require.NoError(t, err)
	_, err = f.petitions.Create(ctx, ana, mika.ID)
	require.NoError(t, err)

	_, err = f.petitions.UpdateStatus(ctx, company, p2.ID, petitions.UpdateInput{Status: statusPtr(petitions.StatusRejected)})
	require.NoError(t, err)

	animalNames := func(items []petitions.Petition) []string {
		out := make([]string, 0, len(items))
		for _, p := range items {
			out = append(out, p.Animal.Name)
		}
		return out
	}

	t.Run("adopter sees own petitions", func(t *testing.T) {
		got, err := f.petitions.ListFor(ctx, ana, petitions.ListFilter{Ordering: "animal_name"})
		require.NoError(t, err)
		assert.Equal(t, []string{"ares", "Mika", "Zeus"}, animalNames(got))
	})

	t.Run("company sees petitions on its animals", func(t *testing.T) {
		got, err := f.petitions.ListFor(ctx, company, petitions.ListFilter{Ordering: "-animal_birth_date"})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "ares", got[0].Animal.Name)
		assert.Equal(t, "Zeus", got[2].Animal.Name)
	})

	t.Run("filter by animal", func(t *testing.T) {
		got, err := f.petitions.ListFor(ctx, company, petitions.ListFilter{AnimalID: zeus.ID})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("groups", func(t *testing.T) {
		def, err := f.petitions.ListByStatusGroup(ctx, company, petitions.GroupDefault, petitions.ListFilter{})
		require.NoError(t, err)
		assert.Len(t, def, 2)

		rej, err := f.petitions.ListByStatusGroup(ctx, company, petitions.GroupRejected, petitions.ListFilter{})
		require.NoError(t, err)
		require.Len(t, rej, 1)
		assert.Equal(t, p2.ID, rej[0].ID)

		_, err = f.petitions.ListByStatusGroup(ctx, company, petitions.Group("archived"), petitions.ListFilter{})
		assert.ErrorIs(t, err, petitions.ErrUnknownGroup)

		_, err = f.petitions.ListByStatusGroup(ctx, ana, petitions.GroupDefault, petitions.ListFilter{})
		assert.ErrorIs(t, err, access.ErrWrongRole)
	})

	t.Run("get outside scope is not found", func(t *testing.T) {
		_, err := f.petitions.Get(ctx, rival, p1.ID)
		assert.ErrorIs(t, err, petitions.ErrNotFound)
		_, err = f.petitions.Get(ctx, bruno, p1.ID)
		assert.ErrorIs(t, err, petitions.ErrNotFound)

		got, err := f.petitions.Get(ctx, company, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, "Zeus", got.Animal.Name)
	})
}

func TestNotificationFailureDoesNotRollback(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	a := f.publish(t, company, "Rex", day(2020, 1, 1))

	f.sink.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down")).Times(2)

	p, err := f.petitions.Create(ctx, ana, a.ID)
	require.NoError(t, err)

	_, err = f.petitions.UpdateStatus(ctx, company, p.ID, petitions.UpdateInput{Status: statusPtr(petitions.StatusAccepted)})
	require.NoError(t, err)

	stored, err := f.animals.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, animals.StatusInProcess, stored.Status)

	rec := httptest.NewRecorder()
	f.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `notification_failures_total{service="test",topic="petition.created"} 1`)
	assert.Contains(t, rec.Body.String(), `notification_failures_total{service="test",topic="petition.status_changed"} 1`)
}

func TestParseOrdering(t *testing.T) {
	assert.Equal(t, petitions.DefaultOrder, petitions.ParseOrdering(""))
	assert.Equal(t, petitions.Order{Field: petitions.OrderAnimalName}, petitions.ParseOrdering("animal__nombre"))
	assert.Equal(t, petitions.Order{Field: petitions.OrderAnimalBirthDate, Desc: true}, petitions.ParseOrdering("-animal_birth_date"))
	// campo desconocido: created_at con la dirección pedida
	assert.Equal(t, petitions.Order{Field: petitions.OrderCreatedAt, Desc: true}, petitions.ParseOrdering("-color"))
	assert.Equal(t, petitions.Order{Field: petitions.OrderCreatedAt}, petitions.ParseOrdering("color"))
}
