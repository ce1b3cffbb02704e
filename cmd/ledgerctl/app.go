package main

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"equipment-rental/internal/listeners"
	"equipment-rental/internal/repositories"
	"equipment-rental/internal/services"
	"equipment-rental/pkg/config"
	"equipment-rental/pkg/database/postgresql"
	"equipment-rental/pkg/eventbus"
)

// application holds the connections, repositories and services every
// subcommand shares. Activity logging is always on; the HTTP-only listeners
// are registered by serve.
type application struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redis.Client
	bus    *eventbus.Bus

	users        repositories.UserRepositoryInterface
	equipment    services.EquipmentServiceInterface
	availability services.AvailabilityServiceInterface
	events       services.EventServiceInterface
	reservations services.ReservationServiceInterface
	maintenance  services.MaintenanceServiceInterface
	reconcile    services.ReconcileServiceInterface
	reports      services.ReportServiceInterface
}

func newApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*application, error) {
	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect redis at %s: %w", cfg.Redis.Address, err)
	}

	txManager := repositories.NewTxManager(pool, cfg.Ledger.LockTimeout)
	equipmentRepo := repositories.NewEquipmentRepository(pool, logger)
	statusRepo := repositories.NewEquipmentStatusRepository(pool, logger)
	eventRepo := repositories.NewEventRepository(pool, logger)
	reservationRepo := repositories.NewReservationRepository(pool, logger)
	maintenanceRepo := repositories.NewMaintenanceRepository(pool, logger)
	maintenanceLogRepo := repositories.NewMaintenanceLogRepository(pool, logger)
	activityRepo := repositories.NewActivityLogRepository(pool, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient, cfg.Redis.Namespace)

	bus := eventbus.New(logger)
	listeners.NewActivityListener(activityRepo, logger).Register(bus)

	availability := services.NewAvailabilityService(
		equipmentRepo, reservationRepo, maintenanceRepo, cacheRepo, cfg.Ledger.AvailabilityCacheTTL, logger)
	writer := services.NewLedgerWriter(equipmentRepo, statusRepo, maintenanceRepo, availability, bus, logger)

	return &application{
		cfg:          cfg,
		logger:       logger,
		pool:         pool,
		redis:        redisClient,
		bus:          bus,
		users:        repositories.NewUserRepository(pool, logger),
		availability: availability,
		equipment: services.NewEquipmentService(
			txManager, equipmentRepo, statusRepo, reservationRepo, maintenanceRepo, writer, logger),
		events: services.NewEventService(
			txManager, eventRepo, reservationRepo, equipmentRepo, writer, logger),
		reservations: services.NewReservationService(
			txManager, eventRepo, reservationRepo, equipmentRepo, writer, logger),
		maintenance: services.NewMaintenanceService(
			txManager, maintenanceRepo, maintenanceLogRepo, equipmentRepo, writer, cfg.Ledger.MaintenancePolicy, logger),
		reconcile: services.NewReconcileService(txManager, equipmentRepo, statusRepo, writer, logger),
		reports:   services.NewReportService(equipmentRepo, logger),
	}, nil
}

// Close waits for pending listeners before dropping the connections they use.
func (a *application) Close() {
	a.bus.Wait()
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("close redis", zap.Error(err))
	}
	a.pool.Close()
}
