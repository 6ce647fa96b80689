package recordlock

import (
	"log/slog"

	httpadapter "kolekta/contexts/collections-core/record-lock/adapters/http"
	"kolekta/contexts/collections-core/record-lock/adapters/memory"
	"kolekta/contexts/collections-core/record-lock/application"
	"kolekta/contexts/collections-core/record-lock/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Locks          ports.LockRepository
	Installments   ports.InstallmentReader
	Roles          ports.RoleCapabilityChecker
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	MaxActiveLocks int
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Locks:          deps.Locks,
		Installments:   deps.Installments,
		Roles:          deps.Roles,
		Clock:          deps.Clock,
		IDGen:          deps.IDGenerator,
		MaxActiveLocks: deps.MaxActiveLocks,
		Logger:         deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(roles ports.RoleCapabilityChecker, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Locks:        store,
		Installments: store,
		Roles:        roles,
		Clock:        store,
		IDGenerator:  store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
