package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	bucketengine "kolekta/contexts/collections-core/bucket-engine"
	collectionworkflow "kolekta/contexts/collections-core/collection-workflow"
	busadapter "kolekta/contexts/collections-core/collection-workflow/adapters/bus"
	collaboratorsadapter "kolekta/contexts/collections-core/collection-workflow/adapters/collaborators"
	workflowpostgres "kolekta/contexts/collections-core/collection-workflow/adapters/postgres"
	workflowworkers "kolekta/contexts/collections-core/collection-workflow/application/workers"
	paymentledger "kolekta/contexts/collections-core/payment-ledger"
	paymentpostgres "kolekta/contexts/collections-core/payment-ledger/adapters/postgres"
	ptpledger "kolekta/contexts/collections-core/ptp-ledger"
	ptppostgres "kolekta/contexts/collections-core/ptp-ledger/adapters/postgres"
	ptpworkers "kolekta/contexts/collections-core/ptp-ledger/application/workers"
	recordlock "kolekta/contexts/collections-core/record-lock"
	lockpostgres "kolekta/contexts/collections-core/record-lock/adapters/postgres"
	rolesadapter "kolekta/contexts/collections-core/record-lock/adapters/roles"
	"kolekta/internal/platform/config"
	"kolekta/internal/platform/db"
	"kolekta/internal/platform/httpserver"
	"kolekta/internal/platform/messaging"

	"github.com/robfig/cron/v3"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server        *httpserver.Server
	postgres      *db.Postgres
	collaborators workflowworkers.CollaboratorConsumer
	logger        *slog.Logger
}

type WorkerApp struct {
	postgres *db.Postgres
	cron     *cron.Cron
	sweeper  ptpworkers.PromiseSweeper
	schedule string
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	buckets := bucketengine.NewModule(bucketengine.Dependencies{Logger: logger})

	lockRepo := lockpostgres.NewRepository(pg.DB, logger)
	locks := recordlock.NewModule(recordlock.Dependencies{
		Locks:          lockRepo,
		Installments:   lockRepo,
		Roles:          rolesadapter.NewStaticChecker(cfg.AdminUnlockers),
		Clock:          lockpostgres.SystemClock{},
		IDGenerator:    lockpostgres.UUIDGenerator{},
		MaxActiveLocks: cfg.MaxAgentLocks,
		Logger:         logger,
	})

	ptpRepo := ptppostgres.NewRepository(pg.DB, logger)
	promises := ptpledger.NewModule(ptpledger.Dependencies{
		Promises:     ptpRepo,
		Installments: ptpRepo,
		Clock:        ptppostgres.SystemClock{},
		IDGenerator:  ptppostgres.UUIDGenerator{},
		Logger:       logger,
	})

	ledgerRepo := paymentpostgres.NewRepository(pg.DB, logger)
	ledger := paymentledger.NewModule(paymentledger.Dependencies{
		Events:      ledgerRepo,
		Clock:       paymentpostgres.SystemClock{},
		IDGenerator: paymentpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	workflowRepo := workflowpostgres.NewRepository(pg.DB, logger)
	workflow := collectionworkflow.NewComposedModule(
		locks,
		promises,
		ledger,
		workflowRepo,
		workflowRepo,
		busadapter.Dispatcher{
			Publisher:     bus,
			SourceService: cfg.ServiceName,
			Logger:        logger,
		},
		workflowpostgres.SystemClock{},
		workflowpostgres.UUIDGenerator{},
		logger,
	)

	server := httpserver.New(buckets, locks, promises, ledger, workflow, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		// The bus is in-process, so the collaborator consumer must run in
		// the publishing process.
		collaborators: workflowworkers.CollaboratorConsumer{
			Subscriber:  busadapter.Subscriber{Bus: bus},
			Executor:    collaboratorsadapter.LogExecutor{Logger: logger},
			MaxAttempts: 3,
			RetryDelay:  2 * time.Second,
			Logger:      logger,
		},
		logger: logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	ptpRepo := ptppostgres.NewRepository(pg.DB, logger)
	promises := ptpledger.NewModule(ptpledger.Dependencies{
		Promises:     ptpRepo,
		Installments: ptpRepo,
		Clock:        ptppostgres.SystemClock{},
		IDGenerator:  ptppostgres.UUIDGenerator{},
		Logger:       logger,
	})

	return &WorkerApp{
		postgres: pg,
		cron:     cron.New(),
		sweeper: ptpworkers.PromiseSweeper{
			Service: promises.Service,
			Clock:   ptppostgres.SystemClock{},
			Logger:  logger,
		},
		schedule: cfg.PTPSweepSchedule,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if err := a.collaborators.Start(ctx); err != nil {
		return err
	}
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.schedule, func() {
		_ = w.sweeper.RunOnce(ctx)
	}); err != nil {
		return err
	}
	w.cron.Start()
	defer w.cron.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"ptp_sweep_schedule", w.schedule,
	)

	<-ctx.Done()
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
