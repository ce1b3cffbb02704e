package services

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipment-rental/internal/dto"
	"equipment-rental/internal/entities"
	"equipment-rental/internal/ledger"
)

func TestCreateEventValidatesDates(t *testing.T) {
	env := newTestEnv(t, ledger.PolicyPerUnit)
	ctx := testCtx()

	payload := dto.CreateEventDTO{
		EventName:        "Festival",
		ClientName:       "City Hall",
		InstallationDate: "2026-07-10",
		EventDate:        "2026-07-09",
		DismantlingDate:  "2026-07-11",
		Category:         "MIXTE",
	}
	_, err := env.events.CreateEvent(ctx, payload)
	requireValidation(t, err)

	payload.EventDate = "10/07/2026"
	_, err = env.events.CreateEvent(ctx, payload)
	requireValidation(t, err)

	payload.EventDate = "2026-07-10"
	ev, err := env.events.CreateEvent(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, entities.EventPlanifie, ev.Status)
	assert.NotNil(t, ev.CreatedBy)

	_, err = env.events.UpdateEvent(ctx, ev.ID, dto.UpdateEventDTO{DismantlingDate: null.StringFrom("2026-07-01")})
	requireValidation(t, err)

	ev, err = env.events.UpdateEvent(ctx, ev.ID, dto.UpdateEventDTO{Status: null.StringFrom("EN_COURS")})
	require.NoError(t, err)
	assert.Equal(t, entities.EventEnCours, ev.Status)

	_, err = env.events.UpdateEvent(ctx, ev.ID, dto.UpdateEventDTO{Status: null.StringFrom("PLANIFIE")})
	requireValidation(t, err)

	ev, err = env.events.UpdateEvent(ctx, ev.ID, dto.UpdateEventDTO{Status: null.StringFrom("TERMINE")})
	require.NoError(t, err)
	_, err = env.events.UpdateEvent(ctx, ev.ID, dto.UpdateEventDTO{Status: null.StringFrom("ANNULE")})
	requireValidation(t, err)
}

func TestDeleteEventReleasesReservations(t *testing.T) {
	env := newTestEnv(t, ledger.PolicyPerUnit)
	ctx := testCtx()
	mixer := env.createEquipment(t, "SON", 4)
	screen := env.createEquipment(t, "VIDEO", 6)
	ev := env.createEvent(t, entities.EventPlanifie)

	env.reserve(t, ev.ID, mixer.ID, 4)
	res := env.reserve(t, ev.ID, screen.ID, 5)
	_, err := env.reservations.ReturnEquipment(ctx, ev.ID, res.ID, dto.ReturnEquipmentDTO{Quantity: 2})
	require.NoError(t, err)

	found, err := env.events.FindEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Len(t, found.Equipment, 2)

	require.NoError(t, env.events.DeleteEvent(ctx, ev.ID))
	assert.Equal(t, 4, env.available(t, mixer.ID))
	assert.Equal(t, 6, env.available(t, screen.ID))
	assert.Empty(t, env.store.data.events)
	assert.Empty(t, env.store.data.reservations)

	_, err = env.events.FindEvent(ctx, ev.ID)
	assert.Error(t, err)
}

func TestDeleteEventInProgress(t *testing.T) {
	env := newTestEnv(t, ledger.PolicyPerUnit)
	eq := env.createEquipment(t, "SON", 4)
	ev := env.createEvent(t, entities.EventEnCours)
	env.reserve(t, ev.ID, eq.ID, 3)

	err := env.events.DeleteEvent(testCtx(), ev.ID)
	requireValidation(t, err)
	assert.Equal(t, 1, env.available(t, eq.ID))
	assert.Len(t, env.store.data.reservations, 1)
}
