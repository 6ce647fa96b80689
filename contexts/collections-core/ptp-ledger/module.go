package ptpledger

import (
	"log/slog"

	httpadapter "kolekta/contexts/collections-core/ptp-ledger/adapters/http"
	"kolekta/contexts/collections-core/ptp-ledger/adapters/memory"
	"kolekta/contexts/collections-core/ptp-ledger/application"
	"kolekta/contexts/collections-core/ptp-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Promises     ports.PromiseRepository
	Installments ports.InstallmentReader
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Promises:     deps.Promises,
		Installments: deps.Installments,
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

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Promises:     store,
		Installments: store,
		Clock:        store,
		IDGenerator:  store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
