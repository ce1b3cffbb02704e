package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"equipment-rental/internal/dto"
	"equipment-rental/internal/entities"
	"equipment-rental/internal/ledger"
	apperrors "equipment-rental/pkg/errors"
	"equipment-rental/pkg/eventbus"
	"equipment-rental/pkg/utils"
)

type testEnv struct {
	store        *memStore
	cache        *fakeCache
	bus          *eventbus.Bus
	availability AvailabilityServiceInterface
	equipment    EquipmentServiceInterface
	events       EventServiceInterface
	reservations ReservationServiceInterface
	maintenance  MaintenanceServiceInterface
	reconcile    ReconcileServiceInterface
}

func newTestEnv(t *testing.T, policy ledger.MaintenancePolicy) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	store := newMemStore()
	tx := fakeTxManager{s: store}

	equipmentRepo := fakeEquipmentRepo{s: store}
	statusRepo := fakeStatusRepo{s: store}
	eventRepo := fakeEventRepo{s: store}
	reservationRepo := fakeReservationRepo{s: store}
	maintenanceRepo := fakeMaintenanceRepo{s: store}
	logRepo := fakeMaintenanceLogRepo{s: store}

	cache := newFakeCache()
	bus := eventbus.New(logger)
	availability := NewAvailabilityService(equipmentRepo, reservationRepo, maintenanceRepo, cache, time.Minute, logger)
	writer := NewLedgerWriter(equipmentRepo, statusRepo, maintenanceRepo, availability, bus, logger)

	env := &testEnv{
		store:        store,
		cache:        cache,
		bus:          bus,
		availability: availability,
		equipment:    NewEquipmentService(tx, equipmentRepo, statusRepo, reservationRepo, maintenanceRepo, writer, logger),
		events:       NewEventService(tx, eventRepo, reservationRepo, equipmentRepo, writer, logger),
		reservations: NewReservationService(tx, eventRepo, reservationRepo, equipmentRepo, writer, logger),
		maintenance:  NewMaintenanceService(tx, maintenanceRepo, logRepo, equipmentRepo, writer, policy, logger),
		reconcile:    NewReconcileService(tx, equipmentRepo, statusRepo, writer, logger),
	}
	t.Cleanup(func() {
		bus.Wait()
		env.assertLedgerConsistent(t)
	})
	return env
}

func testCtx() context.Context {
	return utils.WithUser(context.Background(), uuid.New(), entities.RoleAdmin)
}

func (env *testEnv) createEquipment(t *testing.T, category string, total int) *entities.Equipment {
	t.Helper()
	eq, err := env.equipment.CreateEquipment(testCtx(), dto.CreateEquipmentDTO{
		Name:          "Item " + category,
		Category:      category,
		QuantityTotal: total,
	})
	require.NoError(t, err)
	return eq
}

func (env *testEnv) createEvent(t *testing.T, status entities.EventStatus) *entities.Event {
	t.Helper()
	ev, err := env.events.CreateEvent(testCtx(), dto.CreateEventDTO{
		EventName:        "Gala",
		ClientName:       "ACME",
		InstallationDate: "2026-06-01",
		EventDate:        "2026-06-02",
		DismantlingDate:  "2026-06-03",
		Category:         string(entities.EventCategorySon),
		Status:           string(status),
	})
	require.NoError(t, err)
	return ev
}

func (env *testEnv) reserve(t *testing.T, eventID, equipmentID uuid.UUID, quantity int) *entities.EventEquipment {
	t.Helper()
	res, err := env.reservations.Reserve(testCtx(), eventID, dto.CreateReservationDTO{EquipmentID: equipmentID, Quantity: quantity})
	require.NoError(t, err)
	return res
}

func (env *testEnv) available(t *testing.T, id uuid.UUID) int {
	t.Helper()
	eq, ok := env.store.data.equipment[id]
	require.True(t, ok)
	return eq.QuantityAvailable
}

// history returns the status log of id, oldest first.
func (env *testEnv) history(id uuid.UUID) []entities.EquipmentStatus {
	var list []entities.EquipmentStatus
	for _, s := range env.store.data.status {
		if s.EquipmentID == id {
			list = append(list, s)
		}
	}
	return list
}

// assertLedgerConsistent checks, for every item, that the counter is in range
// and that its status log sums to it.
func (env *testEnv) assertLedgerConsistent(t *testing.T) {
	t.Helper()
	for id, eq := range env.store.data.equipment {
		require.GreaterOrEqual(t, eq.QuantityAvailable, 0, eq.Reference)
		require.LessOrEqual(t, eq.QuantityAvailable, eq.QuantityTotal, eq.Reference)
		require.GreaterOrEqual(t, eq.QuantityOverrideHeld, 0, eq.Reference)
		require.LessOrEqual(t, eq.QuantityOverrideHeld, eq.Committed(), eq.Reference)
		require.Equal(t, eq.QuantityAvailable, ledger.Replay(env.history(id)), eq.Reference)
	}
}

func requireValidation(t *testing.T, err error) {
	t.Helper()
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
}

func requireConflict(t *testing.T, err error) {
	t.Helper()
	var cerr *apperrors.ConflictError
	require.ErrorAs(t, err, &cerr)
}
