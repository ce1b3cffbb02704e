package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"equipment-rental/internal/dto"
	"equipment-rental/internal/repositories"
)

type AvailabilityServiceInterface interface {
	GetAvailability(ctx context.Context, equipmentID uuid.UUID) (*dto.AvailabilityDTO, error)
	Invalidate(ctx context.Context, equipmentID uuid.UUID)
}

// AvailabilityService serves availability snapshots cache-aside. Snapshots are
// dropped after every committed ledger change, the TTL only bounds staleness
// if an invalidation is lost.
type AvailabilityService struct {
	equipmentRepo   repositories.EquipmentRepositoryInterface
	reservationRepo repositories.ReservationRepositoryInterface
	maintenanceRepo repositories.MaintenanceRepositoryInterface
	cache           repositories.CacheRepositoryInterface
	ttl             time.Duration
	logger          *zap.Logger
}

func NewAvailabilityService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	reservationRepo repositories.ReservationRepositoryInterface,
	maintenanceRepo repositories.MaintenanceRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	ttl time.Duration,
	logger *zap.Logger,
) AvailabilityServiceInterface {
	return &AvailabilityService{
		equipmentRepo:   equipmentRepo,
		reservationRepo: reservationRepo,
		maintenanceRepo: maintenanceRepo,
		cache:           cache,
		ttl:             ttl,
		logger:          logger,
	}
}

func availabilityKey(id uuid.UUID) string {
	return "availability:" + id.String()
}

func (s *AvailabilityService) GetAvailability(ctx context.Context, equipmentID uuid.UUID) (*dto.AvailabilityDTO, error) {
	key := availabilityKey(equipmentID)

	cached, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var snapshot dto.AvailabilityDTO
		if err := jsoniter.ConfigFastest.UnmarshalFromString(cached, &snapshot); err == nil {
			return &snapshot, nil
		}
		s.logger.Warn("corrupted availability cache entry", zap.String("key", key))
	case !errors.Is(err, repositories.ErrCacheMiss):
		s.logger.Warn("availability cache unavailable", zap.String("key", key), zap.Error(err))
	}

	eq, err := s.equipmentRepo.FindEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	reserved, err := s.reservationRepo.OutstandingByEquipment(ctx, nil, equipmentID)
	if err != nil {
		return nil, err
	}
	held, err := s.maintenanceRepo.HeldByEquipment(ctx, nil, equipmentID)
	if err != nil {
		return nil, err
	}

	untracked := eq.Committed() - reserved - held - eq.QuantityOverrideHeld
	if untracked < 0 {
		untracked = 0
	}
	snapshot := &dto.AvailabilityDTO{
		EquipmentID:       eq.ID,
		Reference:         eq.Reference,
		QuantityTotal:     eq.QuantityTotal,
		QuantityAvailable: eq.QuantityAvailable,
		Reserved:          reserved,
		InMaintenance:     held + eq.QuantityOverrideHeld,
		Untracked:         untracked,
	}

	encoded, err := jsoniter.ConfigFastest.MarshalToString(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode availability: %w", err)
	}
	if err := s.cache.Set(ctx, key, encoded, s.ttl); err != nil {
		s.logger.Warn("failed to cache availability", zap.String("key", key), zap.Error(err))
	}
	return snapshot, nil
}

func (s *AvailabilityService) Invalidate(ctx context.Context, equipmentID uuid.UUID) {
	if err := s.cache.Del(ctx, availabilityKey(equipmentID)); err != nil {
		s.logger.Warn("failed to invalidate availability", zap.String("equipmentID", equipmentID.String()), zap.Error(err))
	}
}
