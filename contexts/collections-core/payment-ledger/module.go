package paymentledger

import (
	"log/slog"

	httpadapter "kolekta/contexts/collections-core/payment-ledger/adapters/http"
	"kolekta/contexts/collections-core/payment-ledger/adapters/memory"
	"kolekta/contexts/collections-core/payment-ledger/application"
	"kolekta/contexts/collections-core/payment-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Events       ports.EventRepository
	Recalculator ports.StatusRecalculator
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Events: deps.Events,
		Recalc: deps.Recalculator,
		Clock:  deps.Clock,
		IDGen:  deps.IDGenerator,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Events:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
