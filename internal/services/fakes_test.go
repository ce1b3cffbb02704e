package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"equipment-rental/internal/entities"
	"equipment-rental/internal/repositories"
	apperrors "equipment-rental/pkg/errors"
	"equipment-rental/pkg/types"
)

// memData is the whole fake database. Transactions copy it and put the copy
// back on error, which is enough to observe rollbacks.
type memData struct {
	equipment    map[uuid.UUID]entities.Equipment
	status       []entities.EquipmentStatus
	events       map[uuid.UUID]entities.Event
	reservations map[uuid.UUID]entities.EventEquipment
	maintenance  map[uuid.UUID]entities.Maintenance
	logs         []entities.MaintenanceLog
}

func (d memData) clone() memData {
	c := memData{
		equipment:    make(map[uuid.UUID]entities.Equipment, len(d.equipment)),
		status:       append([]entities.EquipmentStatus(nil), d.status...),
		events:       make(map[uuid.UUID]entities.Event, len(d.events)),
		reservations: make(map[uuid.UUID]entities.EventEquipment, len(d.reservations)),
		maintenance:  make(map[uuid.UUID]entities.Maintenance, len(d.maintenance)),
		logs:         append([]entities.MaintenanceLog(nil), d.logs...),
	}
	for k, v := range d.equipment {
		c.equipment[k] = v
	}
	for k, v := range d.events {
		c.events[k] = v
	}
	for k, v := range d.reservations {
		c.reservations[k] = v
	}
	for k, v := range d.maintenance {
		c.maintenance[k] = v
	}
	return c
}

// memStore serialises transactions with one mutex, the strongest form of row locking.
type memStore struct {
	txMu sync.Mutex
	data memData
}

func newMemStore() *memStore {
	return &memStore{data: memData{
		equipment:    map[uuid.UUID]entities.Equipment{},
		events:       map[uuid.UUID]entities.Event{},
		reservations: map[uuid.UUID]entities.EventEquipment{},
		maintenance:  map[uuid.UUID]entities.Maintenance{},
	}}
}

type fakeTxManager struct{ s *memStore }

func (m fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()
	snapshot := m.s.data.clone()
	if err := fn(nil); err != nil {
		m.s.data = snapshot
		return err
	}
	return nil
}

// --- equipment ---

type fakeEquipmentRepo struct{ s *memStore }

func (r fakeEquipmentRepo) GetEquipments(_ context.Context, _ types.Filter) ([]entities.Equipment, uint64, error) {
	list := make([]entities.Equipment, 0, len(r.s.data.equipment))
	for _, eq := range r.s.data.equipment {
		list = append(list, eq)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Reference < list[j].Reference })
	return list, uint64(len(list)), nil
}

func (r fakeEquipmentRepo) FindEquipment(_ context.Context, id uuid.UUID) (*entities.Equipment, error) {
	eq, ok := r.s.data.equipment[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("equipment", id)
	}
	return &eq, nil
}

func (r fakeEquipmentRepo) FindForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*entities.Equipment, error) {
	return r.FindEquipment(ctx, id)
}

func (r fakeEquipmentRepo) CreateInTx(_ context.Context, _ pgx.Tx, eq *entities.Equipment) error {
	for _, existing := range r.s.data.equipment {
		if existing.Reference == eq.Reference {
			return apperrors.NewConflictError("reference %s already exists", eq.Reference)
		}
	}
	eq.ID = uuid.New()
	eq.CreatedAt, eq.UpdatedAt = time.Now(), time.Now()
	r.s.data.equipment[eq.ID] = *eq
	return nil
}

func (r fakeEquipmentRepo) UpdateInTx(_ context.Context, _ pgx.Tx, eq *entities.Equipment) error {
	if _, ok := r.s.data.equipment[eq.ID]; !ok {
		return apperrors.NewNotFoundError("equipment", eq.ID)
	}
	if eq.QuantityAvailable < 0 || eq.QuantityAvailable > eq.QuantityTotal {
		return apperrors.NewValidationError("constraint equipment_available_in_range violated")
	}
	if eq.QuantityOverrideHeld < 0 || eq.QuantityOverrideHeld > eq.Committed() {
		return apperrors.NewValidationError("constraint equipment_override_held_in_range violated")
	}
	r.s.data.equipment[eq.ID] = *eq
	return nil
}

func (r fakeEquipmentRepo) DeleteInTx(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	if _, ok := r.s.data.equipment[id]; !ok {
		return apperrors.NewNotFoundError("equipment", id)
	}
	delete(r.s.data.equipment, id)
	return nil
}

func (r fakeEquipmentRepo) MaxReferenceSeq(_ context.Context, _ pgx.Tx, prefix string) (int, error) {
	max := 0
	for _, eq := range r.s.data.equipment {
		rest, ok := strings.CutPrefix(eq.Reference, "EQ-"+prefix+"-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > max {
			max = n
		}
	}
	return max, nil
}

func (r fakeEquipmentRepo) ListAll(ctx context.Context) ([]entities.Equipment, error) {
	list, _, err := r.GetEquipments(ctx, types.Filter{})
	return list, err
}

func (r fakeEquipmentRepo) AuditRows(ctx context.Context) ([]repositories.EquipmentAuditRow, error) {
	list, _ := r.ListAll(ctx)
	rows := make([]repositories.EquipmentAuditRow, 0, len(list))
	for _, eq := range list {
		row := repositories.EquipmentAuditRow{Equipment: eq}
		for _, s := range r.s.data.status {
			if s.EquipmentID == eq.ID {
				row.LogSum += s.AvailableDelta
			}
		}
		for _, res := range r.s.data.reservations {
			if res.EquipmentID == eq.ID {
				row.Outstanding += res.Outstanding()
			}
		}
		for _, m := range r.s.data.maintenance {
			if m.EquipmentID == eq.ID && m.IsOpen() {
				row.Held += m.QuantityHeld
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// --- status log ---

type fakeStatusRepo struct{ s *memStore }

func (r fakeStatusRepo) AppendInTx(_ context.Context, _ pgx.Tx, entry *entities.EquipmentStatus) error {
	entry.ID = uuid.New()
	entry.ChangedAt = time.Now()
	r.s.data.status = append(r.s.data.status, *entry)
	return nil
}

func (r fakeStatusRepo) History(_ context.Context, equipmentID uuid.UUID, limit int) ([]entities.EquipmentStatus, error) {
	list := make([]entities.EquipmentStatus, 0)
	for i := len(r.s.data.status) - 1; i >= 0; i-- {
		if r.s.data.status[i].EquipmentID == equipmentID {
			list = append(list, r.s.data.status[i])
			if limit > 0 && len(list) == limit {
				break
			}
		}
	}
	return list, nil
}

func (r fakeStatusRepo) SumDeltasInTx(_ context.Context, _ pgx.Tx, equipmentID uuid.UUID) (int, error) {
	sum := 0
	for _, s := range r.s.data.status {
		if s.EquipmentID == equipmentID {
			sum += s.AvailableDelta
		}
	}
	return sum, nil
}

// --- events ---

type fakeEventRepo struct{ s *memStore }

func (r fakeEventRepo) GetEvents(_ context.Context, _ types.Filter) ([]entities.Event, uint64, error) {
	list := make([]entities.Event, 0, len(r.s.data.events))
	for _, ev := range r.s.data.events {
		list = append(list, ev)
	}
	return list, uint64(len(list)), nil
}

func (r fakeEventRepo) FindEvent(_ context.Context, id uuid.UUID) (*entities.Event, error) {
	ev, ok := r.s.data.events[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("event", id)
	}
	return &ev, nil
}

func (r fakeEventRepo) FindForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*entities.Event, error) {
	return r.FindEvent(ctx, id)
}

func (r fakeEventRepo) CreateInTx(_ context.Context, _ pgx.Tx, ev *entities.Event) error {
	ev.ID = uuid.New()
	r.s.data.events[ev.ID] = *ev
	return nil
}

func (r fakeEventRepo) UpdateInTx(_ context.Context, _ pgx.Tx, ev *entities.Event) error {
	if _, ok := r.s.data.events[ev.ID]; !ok {
		return apperrors.NewNotFoundError("event", ev.ID)
	}
	r.s.data.events[ev.ID] = *ev
	return nil
}

func (r fakeEventRepo) DeleteInTx(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	if _, ok := r.s.data.events[id]; !ok {
		return apperrors.NewNotFoundError("event", id)
	}
	delete(r.s.data.events, id)
	for resID, res := range r.s.data.reservations {
		if res.EventID == id {
			delete(r.s.data.reservations, resID)
		}
	}
	return nil
}

// --- reservations ---

type fakeReservationRepo struct{ s *memStore }

func (r fakeReservationRepo) ListByEvent(_ context.Context, eventID uuid.UUID) ([]entities.EventEquipment, error) {
	list := make([]entities.EventEquipment, 0)
	for _, res := range r.s.data.reservations {
		if res.EventID == eventID {
			list = append(list, res)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].EquipmentID.String() < list[j].EquipmentID.String() })
	return list, nil
}

func (r fakeReservationRepo) ListByEventForUpdate(ctx context.Context, _ pgx.Tx, eventID uuid.UUID) ([]entities.EventEquipment, error) {
	return r.ListByEvent(ctx, eventID)
}

func (r fakeReservationRepo) FindForUpdate(_ context.Context, _ pgx.Tx, eventID, id uuid.UUID) (*entities.EventEquipment, error) {
	res, ok := r.s.data.reservations[id]
	if !ok || res.EventID != eventID {
		return nil, apperrors.NewNotFoundError("reservation", id)
	}
	return &res, nil
}

func (r fakeReservationRepo) ExistsInTx(_ context.Context, _ pgx.Tx, eventID, equipmentID uuid.UUID) (bool, error) {
	for _, res := range r.s.data.reservations {
		if res.EventID == eventID && res.EquipmentID == equipmentID {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeReservationRepo) CreateInTx(ctx context.Context, tx pgx.Tx, res *entities.EventEquipment) error {
	if exists, _ := r.ExistsInTx(ctx, tx, res.EventID, res.EquipmentID); exists {
		return apperrors.NewConflictError("equipment is already reserved for this event")
	}
	res.ID = uuid.New()
	r.s.data.reservations[res.ID] = *res
	return nil
}

func (r fakeReservationRepo) UpdateInTx(_ context.Context, _ pgx.Tx, res *entities.EventEquipment) error {
	if res.QuantityReturned < 0 || res.QuantityReturned > res.QuantityReserved {
		return apperrors.NewValidationError("constraint event_equipment_returned_in_range violated")
	}
	r.s.data.reservations[res.ID] = *res
	return nil
}

func (r fakeReservationRepo) DeleteInTx(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	if _, ok := r.s.data.reservations[id]; !ok {
		return apperrors.NewNotFoundError("reservation", id)
	}
	delete(r.s.data.reservations, id)
	return nil
}

func (r fakeReservationRepo) OutstandingByEquipment(_ context.Context, _ pgx.Tx, equipmentID uuid.UUID) (int, error) {
	n := 0
	for _, res := range r.s.data.reservations {
		if res.EquipmentID == equipmentID {
			n += res.Outstanding()
		}
	}
	return n, nil
}

// --- maintenance ---

type fakeMaintenanceRepo struct{ s *memStore }

func (r fakeMaintenanceRepo) GetMaintenances(_ context.Context, _ types.Filter) ([]entities.Maintenance, uint64, error) {
	list := make([]entities.Maintenance, 0, len(r.s.data.maintenance))
	for _, m := range r.s.data.maintenance {
		list = append(list, m)
	}
	return list, uint64(len(list)), nil
}

func (r fakeMaintenanceRepo) FindMaintenance(_ context.Context, id uuid.UUID) (*entities.Maintenance, error) {
	m, ok := r.s.data.maintenance[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("maintenance", id)
	}
	return &m, nil
}

func (r fakeMaintenanceRepo) FindForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*entities.Maintenance, error) {
	return r.FindMaintenance(ctx, id)
}

func (r fakeMaintenanceRepo) CreateInTx(_ context.Context, _ pgx.Tx, m *entities.Maintenance) error {
	m.ID = uuid.New()
	r.s.data.maintenance[m.ID] = *m
	return nil
}

func (r fakeMaintenanceRepo) UpdateInTx(_ context.Context, _ pgx.Tx, m *entities.Maintenance) error {
	r.s.data.maintenance[m.ID] = *m
	return nil
}

func (r fakeMaintenanceRepo) DeleteInTx(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	delete(r.s.data.maintenance, id)
	return nil
}

func (r fakeMaintenanceRepo) HasOpenInTx(_ context.Context, _ pgx.Tx, equipmentID uuid.UUID) (bool, error) {
	for _, m := range r.s.data.maintenance {
		if m.EquipmentID == equipmentID && m.IsOpen() {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeMaintenanceRepo) HeldByEquipment(_ context.Context, _ pgx.Tx, equipmentID uuid.UUID) (int, error) {
	n := 0
	for _, m := range r.s.data.maintenance {
		if m.EquipmentID == equipmentID && m.IsOpen() {
			n += m.QuantityHeld
		}
	}
	return n, nil
}

type fakeMaintenanceLogRepo struct{ s *memStore }

func (r fakeMaintenanceLogRepo) CreateInTx(_ context.Context, _ pgx.Tx, log *entities.MaintenanceLog) error {
	log.ID = uuid.New()
	log.CreatedAt = time.Now()
	r.s.data.logs = append(r.s.data.logs, *log)
	return nil
}

func (r fakeMaintenanceLogRepo) ListByMaintenance(_ context.Context, maintenanceID uuid.UUID) ([]entities.MaintenanceLog, error) {
	list := make([]entities.MaintenanceLog, 0)
	for _, l := range r.s.data.logs {
		if l.MaintenanceID == maintenanceID {
			list = append(list, l)
		}
	}
	return list, nil
}

// --- cache ---

type fakeCache struct {
	mu      sync.Mutex
	values  map[string]string
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = fmt.Sprint(value)
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
		c.deletes++
	}
	return nil
}
