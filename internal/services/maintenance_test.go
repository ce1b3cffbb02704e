package services

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipment-rental/internal/dto"
	"equipment-rental/internal/entities"
	"equipment-rental/internal/ledger"
	"equipment-rental/pkg/utils"
)

func TestMaintenancePolicies(t *testing.T) {
	cases := []struct {
		policy   ledger.MaintenancePolicy
		wantHeld int
	}{
		{ledger.PolicyPerUnit, 1},
		{ledger.PolicyAllUnits, 3},
	}
	for _, tc := range cases {
		t.Run(string(tc.policy), func(t *testing.T) {
			env := newTestEnv(t, tc.policy)
			ctx := testCtx()
			eq := env.createEquipment(t, "VIDEO", 5)
			ev := env.createEvent(t, entities.EventPlanifie)
			env.reserve(t, ev.ID, eq.ID, 2)

			m, err := env.maintenance.CreateMaintenance(ctx, dto.CreateMaintenanceDTO{
				EquipmentID:        eq.ID,
				ProblemDescription: "dead pixels",
			})
			require.NoError(t, err)
			assert.Equal(t, tc.wantHeld, m.QuantityHeld)
			assert.Equal(t, entities.MaintenanceEnAttente, m.Status)
			assert.Equal(t, entities.PriorityMoyenne, m.Priority)
			assert.Equal(t, 3-tc.wantHeld, env.available(t, eq.ID))

			m, err = env.maintenance.CompleteMaintenance(ctx, m.ID, dto.CompleteMaintenanceDTO{
				SolutionDescription: utils.Ptr("panel replaced"),
			})
			require.NoError(t, err)
			assert.Equal(t, entities.MaintenanceTermine, m.Status)
			assert.NotNil(t, m.ActualEndDate)
			assert.Equal(t, 3, env.available(t, eq.ID))

			history := env.history(eq.ID)
			opened, completed := history[len(history)-2], history[len(history)-1]
			assert.Equal(t, entities.StatusEnMaintenance, opened.Status)
			assert.Equal(t, m.ID, *opened.RelatedMaintenanceID)
			assert.Equal(t, entities.StatusDisponible, completed.Status)
			assert.Equal(t, tc.wantHeld, completed.Quantity)

			_, err = env.maintenance.CompleteMaintenance(ctx, m.ID, dto.CompleteMaintenanceDTO{})
			requireValidation(t, err)
			assert.Equal(t, 3, env.available(t, eq.ID))
		})
	}
}

func TestMaintenanceNeedsAnAvailableUnit(t *testing.T) {
	env := newTestEnv(t, ledger.PolicyPerUnit)
	eq := env.createEquipment(t, "SON", 1)
	ev := env.createEvent(t, entities.EventPlanifie)
	env.reserve(t, ev.ID, eq.ID, 1)

	_, err := env.maintenance.CreateMaintenance(testCtx(), dto.CreateMaintenanceDTO{EquipmentID: eq.ID, ProblemDescription: "hum"})
	requireValidation(t, err)
	assert.Empty(t, env.store.data.maintenance)
	assert.Empty(t, env.store.data.logs)
}

func TestDeleteMaintenance(t *testing.T) {
	env := newTestEnv(t, ledger.PolicyAllUnits)
	ctx := testCtx()
	eq := env.createEquipment(t, "SON", 4)

	open, err := env.maintenance.CreateMaintenance(ctx, dto.CreateMaintenanceDTO{EquipmentID: eq.ID, ProblemDescription: "hum"})
	require.NoError(t, err)
	require.Equal(t, 0, env.available(t, eq.ID))

	require.NoError(t, env.maintenance.DeleteMaintenance(ctx, open.ID))
	assert.Equal(t, 4, env.available(t, eq.ID))
	assert.Empty(t, env.store.data.maintenance)

	done, err := env.maintenance.CreateMaintenance(ctx, dto.CreateMaintenanceDTO{EquipmentID: eq.ID, ProblemDescription: "crackle"})
	require.NoError(t, err)
	_, err = env.maintenance.CompleteMaintenance(ctx, done.ID, dto.CompleteMaintenanceDTO{})
	require.NoError(t, err)

	err = env.maintenance.DeleteMaintenance(ctx, done.ID)
	requireValidation(t, err)
	assert.Len(t, env.store.data.maintenance, 1)
	assert.Equal(t, 4, env.available(t, eq.ID))
}

func TestUpdateMaintenanceStatusIsLogged(t *testing.T) {
	env := newTestEnv(t, ledger.PolicyPerUnit)
	ctx := testCtx()
	eq := env.createEquipment(t, "SON", 2)

	m, err := env.maintenance.CreateMaintenance(ctx, dto.CreateMaintenanceDTO{EquipmentID: eq.ID, ProblemDescription: "hum"})
	require.NoError(t, err)

	m, err = env.maintenance.UpdateMaintenance(ctx, m.ID, dto.UpdateMaintenanceDTO{
		Status:   null.StringFrom(string(entities.MaintenanceEnCours)),
		Priority: null.StringFrom(string(entities.PriorityHaute)),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.MaintenanceEnCours, m.Status)
	assert.Equal(t, entities.PriorityHaute, m.Priority)
	assert.Equal(t, 1, env.available(t, eq.ID))

	_, err = env.maintenance.AddLog(ctx, m.ID, dto.CreateMaintenanceLogDTO{Content: "  ordered a new transformer "})
	require.NoError(t, err)

	found, err := env.maintenance.FindMaintenance(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, found.Logs, 3)
	assert.Equal(t, entities.MaintenanceLogStatusChange, found.Logs[0].Type)
	assert.Equal(t, entities.MaintenanceLogStatusChange, found.Logs[1].Type)
	assert.Contains(t, found.Logs[1].Content, "EN_COURS")
	assert.Equal(t, entities.MaintenanceLogComment, found.Logs[2].Type)
	assert.Equal(t, "ordered a new transformer", found.Logs[2].Content)
}
