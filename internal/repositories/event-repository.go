package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"equipment-rental/internal/entities"
	bd "equipment-rental/internal/infrastructure/bd"
	apperrors "equipment-rental/pkg/errors"
	"equipment-rental/pkg/types"
)

const eventTable = "events"

var eventColumns = []string{
	"ev.id", "ev.event_name", "ev.client_name", "ev.contact_person", "ev.phone", "ev.email", "ev.address",
	"ev.installation_date", "ev.event_date", "ev.dismantling_date", "ev.category", "ev.status", "ev.notes",
	"ev.created_by", "ev.created_at", "ev.updated_at",
}

var eventMap = map[string]string{
	"id":                "ev.id",
	"event_name":        "ev.event_name",
	"client_name":       "ev.client_name",
	"category":          "ev.category",
	"status":            "ev.status",
	"installation_date": "ev.installation_date",
	"event_date":        "ev.event_date",
	"dismantling_date":  "ev.dismantling_date",
	"created_by":        "ev.created_by",
	"created_at":        "ev.created_at",
}

type EventRepositoryInterface interface {
	GetEvents(ctx context.Context, filter types.Filter) ([]entities.Event, uint64, error)
	FindEvent(ctx context.Context, id uuid.UUID) (*entities.Event, error)
	FindForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.Event, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, ev *entities.Event) error
	UpdateInTx(ctx context.Context, tx pgx.Tx, ev *entities.Event) error
	DeleteInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

type EventRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEventRepository(storage *pgxpool.Pool, logger *zap.Logger) EventRepositoryInterface {
	return &EventRepository{storage: storage, logger: logger}
}

func scanEvent(row pgx.Row) (*entities.Event, error) {
	var e entities.Event
	err := row.Scan(
		&e.ID, &e.EventName, &e.ClientName, &e.ContactPerson, &e.Phone, &e.Email, &e.Address,
		&e.InstallationDate, &e.EventDate, &e.DismantlingDate, &e.Category, &e.Status, &e.Notes,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) GetEvents(ctx context.Context, filter types.Filter) ([]entities.Event, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		return bd.ApplySearch(b, filter.Search, "ev.event_name", "ev.client_name")
	}

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder := applySearch(psql.Select("COUNT(ev.id)").From(eventTable + " AS ev"))
	countBuilder = bd.ApplyListParams(countBuilder, countFilter, eventMap)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Event{}, 0, nil
	}

	selectBuilder := applySearch(psql.Select(eventColumns...).From(eventTable + " AS ev"))
	if len(filter.Sort) == 0 {
		selectBuilder = selectBuilder.OrderBy("ev.event_date DESC")
	}
	selectBuilder = bd.ApplyListParams(selectBuilder, filter, eventMap)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]entities.Event, 0, filter.Limit)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *ev)
	}
	return list, total, rows.Err()
}

func (r *EventRepository) findOne(ctx context.Context, q Querier, id uuid.UUID, forUpdate bool) (*entities.Event, error) {
	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(eventColumns...).
		From(eventTable + " AS ev").
		Where(sq.Eq{"ev.id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	ev, err := scanEvent(q.QueryRow(ctx, query, args...))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("event", id)
	}
	return ev, err
}

func (r *EventRepository) FindEvent(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	return r.findOne(ctx, r.storage, id, false)
}

func (r *EventRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.Event, error) {
	return r.findOne(ctx, tx, id, true)
}

func (r *EventRepository) CreateInTx(ctx context.Context, tx pgx.Tx, ev *entities.Event) error {
	query := `
		INSERT INTO events (event_name, client_name, contact_person, phone, email, address,
		                    installation_date, event_date, dismantling_date, category, status, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(ctx, query,
		ev.EventName, ev.ClientName, ev.ContactPerson, ev.Phone, ev.Email, ev.Address,
		ev.InstallationDate, ev.EventDate, ev.DismantlingDate, ev.Category, ev.Status, ev.Notes, ev.CreatedBy,
	).Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return mapPgError(err, "event already exists")
	}
	return nil
}

func (r *EventRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, ev *entities.Event) error {
	query := `
		UPDATE events
		SET event_name = $1, client_name = $2, contact_person = $3, phone = $4, email = $5, address = $6,
		    installation_date = $7, event_date = $8, dismantling_date = $9, category = $10, status = $11,
		    notes = $12, updated_at = NOW()
		WHERE id = $13
		RETURNING updated_at`
	err := tx.QueryRow(ctx, query,
		ev.EventName, ev.ClientName, ev.ContactPerson, ev.Phone, ev.Email, ev.Address,
		ev.InstallationDate, ev.EventDate, ev.DismantlingDate, ev.Category, ev.Status, ev.Notes, ev.ID,
	).Scan(&ev.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError("event", ev.ID)
	}
	if err != nil {
		return mapPgError(err, "event update conflicts with an existing record")
	}
	return nil
}

func (r *EventRepository) DeleteInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	result, err := tx.Exec(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("event", id)
	}
	return nil
}
