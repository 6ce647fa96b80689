package bucketengine

import (
	"log/slog"

	httpadapter "kolekta/contexts/collections-core/bucket-engine/adapters/http"
)

type Module struct {
	Handler httpadapter.Handler
}

type Dependencies struct {
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Logger: deps.Logger,
		},
	}
}
