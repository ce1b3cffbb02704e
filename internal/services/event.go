package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"equipment-rental/internal/dto"
	"equipment-rental/internal/entities"
	"equipment-rental/internal/ledger"
	"equipment-rental/internal/repositories"
	apperrors "equipment-rental/pkg/errors"
	"equipment-rental/pkg/types"
	"equipment-rental/pkg/utils"
)

const dateLayout = "2006-01-02"

type EventServiceInterface interface {
	GetEvents(ctx context.Context, filter types.Filter) ([]entities.Event, uint64, error)
	FindEvent(ctx context.Context, id uuid.UUID) (*entities.Event, error)
	CreateEvent(ctx context.Context, payload dto.CreateEventDTO) (*entities.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, payload dto.UpdateEventDTO) (*entities.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

type EventService struct {
	txManager       repositories.TxManagerInterface
	eventRepo       repositories.EventRepositoryInterface
	reservationRepo repositories.ReservationRepositoryInterface
	equipmentRepo   repositories.EquipmentRepositoryInterface
	writer          *LedgerWriter
	logger          *zap.Logger
}

func NewEventService(
	txManager repositories.TxManagerInterface,
	eventRepo repositories.EventRepositoryInterface,
	reservationRepo repositories.ReservationRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	writer *LedgerWriter,
	logger *zap.Logger,
) EventServiceInterface {
	return &EventService{
		txManager:       txManager,
		eventRepo:       eventRepo,
		reservationRepo: reservationRepo,
		equipmentRepo:   equipmentRepo,
		writer:          writer,
		logger:          logger,
	}
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("%s must be YYYY-MM-DD, got %q", field, value)
	}
	return t, nil
}

func validateEventDates(ev *entities.Event) error {
	if ev.EventDate.Before(ev.InstallationDate) {
		return apperrors.NewValidationError("event_date cannot be before installation_date")
	}
	if ev.DismantlingDate.Before(ev.EventDate) {
		return apperrors.NewValidationError("dismantling_date cannot be before event_date")
	}
	return nil
}

func (s *EventService) GetEvents(ctx context.Context, filter types.Filter) ([]entities.Event, uint64, error) {
	list, total, err := s.eventRepo.GetEvents(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list events", zap.Error(err))
		return nil, 0, err
	}
	return list, total, nil
}

func (s *EventService) FindEvent(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	ev, err := s.eventRepo.FindEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	reservations, err := s.reservationRepo.ListByEvent(ctx, id)
	if err != nil {
		s.logger.Error("failed to load reservations", zap.String("eventID", id.String()), zap.Error(err))
		return nil, err
	}
	ev.Equipment = reservations
	return ev, nil
}

func (s *EventService) CreateEvent(ctx context.Context, payload dto.CreateEventDTO) (*entities.Event, error) {
	ev := &entities.Event{
		EventName:     strings.TrimSpace(payload.EventName),
		ClientName:    strings.TrimSpace(payload.ClientName),
		ContactPerson: payload.ContactPerson,
		Phone:         payload.Phone,
		Email:         payload.Email,
		Address:       payload.Address,
		Category:      entities.EventCategory(payload.Category),
		Status:        entities.EventPlanifie,
		Notes:         payload.Notes,
		CreatedBy:     actorID(ctx),
	}
	if payload.Status != "" {
		ev.Status = entities.EventStatus(payload.Status)
	}

	var err error
	if ev.InstallationDate, err = parseDate("installation_date", payload.InstallationDate); err != nil {
		return nil, err
	}
	if ev.EventDate, err = parseDate("event_date", payload.EventDate); err != nil {
		return nil, err
	}
	if ev.DismantlingDate, err = parseDate("dismantling_date", payload.DismantlingDate); err != nil {
		return nil, err
	}
	if err := validateEventDates(ev); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.eventRepo.CreateInTx(ctx, tx, ev)
	})
	if err != nil {
		s.logger.Error("failed to create event", zap.Error(err))
		return nil, err
	}

	var out outbox
	out.activity(ctx, "CREATE", "event", ev.ID, fmt.Sprintf("Event %q created for %s", ev.EventName, ev.ClientName))
	s.writer.publish(ctx, &out)
	return ev, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, id uuid.UUID, payload dto.UpdateEventDTO) (*entities.Event, error) {
	var ev *entities.Event
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		ev, err = s.eventRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if payload.EventName.Valid {
			ev.EventName = strings.TrimSpace(payload.EventName.String)
		}
		if payload.ClientName.Valid {
			ev.ClientName = strings.TrimSpace(payload.ClientName.String)
		}
		if payload.ContactPerson.Valid {
			ev.ContactPerson = utils.Ptr(payload.ContactPerson.String)
		}
		if payload.Phone.Valid {
			ev.Phone = utils.Ptr(payload.Phone.String)
		}
		if payload.Email.Valid {
			ev.Email = utils.Ptr(payload.Email.String)
		}
		if payload.Address.Valid {
			ev.Address = utils.Ptr(payload.Address.String)
		}
		if payload.Notes.Valid {
			ev.Notes = utils.Ptr(payload.Notes.String)
		}
		if payload.Category.Valid {
			ev.Category = entities.EventCategory(payload.Category.String)
		}
		if payload.Status.Valid {
			next := entities.EventStatus(payload.Status.String)
			if !ev.Status.CanTransition(next) {
				return apperrors.NewValidationError("event status cannot go from %s to %s", ev.Status, next)
			}
			ev.Status = next
		}
		if payload.InstallationDate.Valid {
			if ev.InstallationDate, err = parseDate("installation_date", payload.InstallationDate.String); err != nil {
				return err
			}
		}
		if payload.EventDate.Valid {
			if ev.EventDate, err = parseDate("event_date", payload.EventDate.String); err != nil {
				return err
			}
		}
		if payload.DismantlingDate.Valid {
			if ev.DismantlingDate, err = parseDate("dismantling_date", payload.DismantlingDate.String); err != nil {
				return err
			}
		}
		if err := validateEventDates(ev); err != nil {
			return err
		}
		return s.eventRepo.UpdateInTx(ctx, tx, ev)
	})
	if err != nil {
		s.logger.Error("failed to update event", zap.String("eventID", id.String()), zap.Error(err))
		return nil, err
	}

	var out outbox
	out.activity(ctx, "UPDATE", "event", ev.ID, fmt.Sprintf("Event %q updated (status %s)", ev.EventName, ev.Status))
	s.writer.publish(ctx, &out)
	return ev, nil
}

// DeleteEvent gives back every unit the event still holds, then deletes it.
// Equipment rows are locked in ascending id order.
func (s *EventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	var (
		out  outbox
		name string
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		ev, err := s.eventRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if ev.Status == entities.EventEnCours {
			return apperrors.NewValidationError("event %q is in progress and cannot be deleted", ev.EventName)
		}
		name = ev.EventName

		reservations, err := s.reservationRepo.ListByEventForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		for i := range reservations {
			res := &reservations[i]
			eq, err := s.equipmentRepo.FindForUpdate(ctx, tx, res.EquipmentID)
			if err != nil {
				return err
			}
			entry := ledger.Release(eq, res)
			entry.RelatedEventID = &ev.ID
			if err := s.writer.apply(ctx, tx, eq, entry, &out); err != nil {
				return err
			}
		}
		return s.eventRepo.DeleteInTx(ctx, tx, id)
	})
	if err != nil {
		s.logger.Error("failed to delete event", zap.String("eventID", id.String()), zap.Error(err))
		return err
	}

	out.activity(ctx, "DELETE", "event", id, fmt.Sprintf("Event %q deleted, %d reservations released", name, len(out.changes)))
	s.writer.publish(ctx, &out)
	return nil
}
