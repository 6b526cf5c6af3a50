package decisions_test

import (
	"context"
	"testing"
	"time"

	"adopta-api/internal/adapters/storage/memory"
	"adopta-api/internal/domain/access"
	"adopta-api/internal/domain/animals"
	"adopta-api/internal/domain/decisions"
	"adopta-api/internal/platform/apperr"
	"adopta-api/internal/platform/metrics"
	"adopta-api/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	company = &auth.Principal{UserID: "c-1", Role: auth.RoleCompany, Province: "Madrid"}
	adopter = &auth.Principal{UserID: "u-1", Role: auth.RoleIndividual, Province: "Madrid"}
)

type fixture struct {
	animals   *animals.Service
	decisions *decisions.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := memory.NewDB()
	animalSvc := animals.NewService(memory.NewAnimalRepo(db))
	return fixture{
		animals:   animalSvc,
		decisions: decisions.NewService(memory.NewDecisionRepo(db), animalSvc, metrics.New("test")),
	}
}

func (f fixture) publish(t *testing.T, name string) animals.Animal {
	t.Helper()
	a, err := f.animals.Create(context.Background(), company, animals.CreateInput{
		Name:      name,
		Species:   "cat",
		Gender:    "male",
		BirthDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Size:      "small",
	})
	require.NoError(t, err)
	return a
}

func TestRecord_UpsertsPerAnimal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.publish(t, "Tom")

	first, err := f.decisions.Record(ctx, adopter, a.ID, decisions.KindIgnore)
	require.NoError(t, err)

	second, err := f.decisions.Record(ctx, adopter, a.ID, decisions.KindRequest)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, decisions.KindRequest, second.Kind)

	mine, err := f.decisions.ListMine(ctx, adopter)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, decisions.KindRequest, mine[0].Kind)
}

func TestRecord_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.publish(t, "Tom")

	_, err := f.decisions.Record(ctx, company, a.ID, decisions.KindRequest)
	assert.ErrorIs(t, err, access.ErrWrongRole)

	_, err = f.decisions.Record(ctx, nil, a.ID, decisions.KindRequest)
	assert.ErrorIs(t, err, access.ErrUnauthenticated)

	_, err = f.decisions.Record(ctx, adopter, a.ID, decisions.Kind("LIKE"))
	assert.ErrorIs(t, err, decisions.ErrInvalidKind)

	_, err = f.decisions.Record(ctx, adopter, " ", decisions.KindRequest)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.decisions.Record(ctx, adopter, "missing", decisions.KindRequest)
	assert.ErrorIs(t, err, animals.ErrNotFound)
}

func TestResetIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a1 := f.publish(t, "A")
	a2 := f.publish(t, "B")
	a3 := f.publish(t, "C")

	_, err := f.decisions.Record(ctx, adopter, a1.ID, decisions.KindIgnore)
	require.NoError(t, err)
	_, err = f.decisions.Record(ctx, adopter, a2.ID, decisions.KindIgnore)
	require.NoError(t, err)
	_, err = f.decisions.Record(ctx, adopter, a3.ID, decisions.KindRequest)
	require.NoError(t, err)

	other := &auth.Principal{UserID: "u-2", Role: auth.RoleIndividual}
	_, err = f.decisions.Record(ctx, other, a1.ID, decisions.KindIgnore)
	require.NoError(t, err)

	n, err := f.decisions.ResetIgnored(ctx, adopter)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ids, err := f.decisions.ListDecidedAnimalIDs(ctx, adopter.UserID)
	require.NoError(t, err)
	assert.Equal(t, []string{a3.ID}, ids)

	// Los de otro usuario no se tocan.
	ids, err = f.decisions.ListDecidedAnimalIDs(ctx, other.UserID)
	require.NoError(t, err)
	assert.Equal(t, []string{a1.ID}, ids)

	n, err = f.decisions.ResetIgnored(ctx, adopter)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDecisionsGoneWithAnimal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.publish(t, "Tom")

	_, err := f.decisions.Record(ctx, adopter, a.ID, decisions.KindIgnore)
	require.NoError(t, err)
	require.NoError(t, f.animals.Delete(ctx, company, a.ID))

	mine, err := f.decisions.ListMine(ctx, adopter)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]decisions.Kind{
		"REQUEST":   decisions.KindRequest,
		"solicitar": decisions.KindRequest,
		" ignore ":  decisions.KindIgnore,
		"IGNORAR":   decisions.KindIgnore,
	} {
		got, ok := decisions.ParseKind(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := decisions.ParseKind("LIKE")
	assert.False(t, ok)
}
