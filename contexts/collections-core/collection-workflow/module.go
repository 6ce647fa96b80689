package collectionworkflow

import (
	"log/slog"

	coreadapter "kolekta/contexts/collections-core/collection-workflow/adapters/core"
	httpadapter "kolekta/contexts/collections-core/collection-workflow/adapters/http"
	"kolekta/contexts/collections-core/collection-workflow/adapters/memory"
	"kolekta/contexts/collections-core/collection-workflow/application"
	"kolekta/contexts/collections-core/collection-workflow/ports"
	paymentledger "kolekta/contexts/collections-core/payment-ledger"
	ptpledger "kolekta/contexts/collections-core/ptp-ledger"
	recordlock "kolekta/contexts/collections-core/record-lock"
	recordlockports "kolekta/contexts/collections-core/record-lock/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Locks        ports.LockChecker
	Promises     ports.PromiseWorkflow
	Payments     ports.PaymentPoster
	Installments ports.InstallmentReader
	Notes        ports.NoteAppender
	Dispatcher   ports.CollaboratorDispatcher
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Locks:        deps.Locks,
		Promises:     deps.Promises,
		Payments:     deps.Payments,
		Installments: deps.Installments,
		Notes:        deps.Notes,
		Dispatcher:   deps.Dispatcher,
		Clock:        deps.Clock,
		IDGen:        deps.IDGenerator,
		Logger:       deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewComposedModule wires the orchestrator over the sibling modules'
// application services, with the workflow store supplying snapshots and
// audit notes.
func NewComposedModule(
	locks recordlock.Module,
	promises ptpledger.Module,
	payments paymentledger.Module,
	installments ports.InstallmentReader,
	notes ports.NoteAppender,
	dispatcher ports.CollaboratorDispatcher,
	clock ports.Clock,
	idGen ports.IDGenerator,
	logger *slog.Logger,
) Module {
	return NewModule(Dependencies{
		Locks:        coreadapter.LockAdapter{Service: locks.Service},
		Promises:     coreadapter.PromiseAdapter{Service: promises.Service},
		Payments:     coreadapter.PaymentAdapter{Service: payments.Service},
		Installments: installments,
		Notes:        notes,
		Dispatcher:   dispatcher,
		Clock:        clock,
		IDGenerator:  idGen,
		Logger:       logger,
	})
}

// NewInMemoryModule composes the full in-memory stack: every sibling
// module on its memory store plus the workflow's own snapshot store.
func NewInMemoryModule(roles recordlockports.RoleCapabilityChecker, dispatcher ports.CollaboratorDispatcher, logger *slog.Logger) (Module, recordlock.Module, ptpledger.Module, paymentledger.Module) {
	locks := recordlock.NewInMemoryModule(roles, logger)
	promises := ptpledger.NewInMemoryModule(logger)
	payments := paymentledger.NewInMemoryModule(logger)
	store := memory.NewStore()
	module := NewComposedModule(locks, promises, payments, store, store, dispatcher, store, store, logger)
	module.Store = store
	return module, locks, promises, payments
}
