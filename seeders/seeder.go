package seeders

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"equipment-rental/internal/dto"
	"equipment-rental/internal/entities"
	"equipment-rental/internal/repositories"
	"equipment-rental/internal/services"
	"equipment-rental/pkg/types"
	"equipment-rental/pkg/utils"
)

// Seeder fills a database with the four role accounts and a demo inventory.
// Demo data goes through the services so every unit has its status history.
type Seeder struct {
	users        repositories.UserRepositoryInterface
	equipment    services.EquipmentServiceInterface
	events       services.EventServiceInterface
	reservations services.ReservationServiceInterface
	logger       *zap.Logger
}

func New(
	users repositories.UserRepositoryInterface,
	equipment services.EquipmentServiceInterface,
	events services.EventServiceInterface,
	reservations services.ReservationServiceInterface,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{users: users, equipment: equipment, events: events, reservations: reservations, logger: logger}
}

// SeedUsers creates or refreshes one account per role, all with the same password.
func (s *Seeder) SeedUsers(ctx context.Context, password string) ([]entities.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	seeded := make([]entities.User, 0, len(usersData))
	for _, data := range usersData {
		user := entities.User{
			FullName:     data.FullName,
			Email:        data.Email,
			PasswordHash: hash,
			Role:         data.Role,
			IsActive:     true,
		}
		if err := s.users.Upsert(ctx, &user); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", data.Email, err)
		}
		s.logger.Info("user seeded", zap.String("email", user.Email), zap.String("role", user.Role))
		seeded = append(seeded, user)
	}
	return seeded, nil
}

// SeedDemo creates the demo inventory and events. It does nothing when the
// inventory already holds equipment. ctx must carry the acting user.
func (s *Seeder) SeedDemo(ctx context.Context) error {
	_, total, err := s.equipment.GetEquipments(ctx, types.Filter{Limit: 1, Page: 1, WithPagination: true})
	if err != nil {
		return err
	}
	if total > 0 {
		s.logger.Info("inventory is not empty, demo data skipped", zap.Uint64("equipment", total))
		return nil
	}

	created := make([]*entities.Equipment, 0, len(equipmentData))
	for _, payload := range equipmentData {
		eq, err := s.equipment.CreateEquipment(ctx, payload)
		if err != nil {
			return fmt.Errorf("seed equipment %s: %w", payload.Name, err)
		}
		created = append(created, eq)
	}

	for _, data := range eventsData {
		ev, err := s.events.CreateEvent(ctx, data.Event)
		if err != nil {
			return fmt.Errorf("seed event %s: %w", data.Event.EventName, err)
		}
		for _, r := range data.Reservations {
			eq := created[r.Equipment]
			_, err := s.reservations.Reserve(ctx, ev.ID, dto.CreateReservationDTO{EquipmentID: eq.ID, Quantity: r.Quantity})
			if err != nil {
				return fmt.Errorf("seed reservation %s on %s: %w", eq.Reference, ev.EventName, err)
			}
		}
	}

	s.logger.Info("demo data seeded", zap.Int("equipment", len(created)), zap.Int("events", len(eventsData)))
	return nil
}
