package projectservice

import (
	"log/slog"

	httpadapter "carbono/contexts/account-core/project-service/adapters/http"
	"carbono/contexts/account-core/project-service/adapters/memory"
	"carbono/contexts/account-core/project-service/application"
	"carbono/contexts/account-core/project-service/application/workers"
	"carbono/contexts/account-core/project-service/ports"
	"carbono/internal/shared/minting"
)

// Module is the project-service composition root exposed to runtime wiring.
type Module struct {
	Handler    httpadapter.Handler
	Service    application.Service
	Reconciler workers.GrantReconciler
	Store      *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
// Directory crosses the context boundary into account-service; the runtime
// supplies the bridge.
type Dependencies struct {
	Repository ports.Repository
	Grants     ports.GrantStore
	Directory  ports.ProfileDirectory
	Clock      ports.Clock
	Minter     minting.Minter
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Projects:  deps.Repository,
		Grants:    deps.Grants,
		Directory: deps.Directory,
		Minter:    deps.Minter,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
		Reconciler: workers.GrantReconciler{
			Projects: deps.Repository,
			Grants:   deps.Grants,
			Logger:   deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// persistence. The caller supplies the profile directory bridge.
func NewInMemoryModule(directory ports.ProfileDirectory, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Grants:     store,
		Directory:  directory,
		Clock:      store,
		Minter:     minting.Minter{Logger: logger},
		Logger:     logger,
	})
	module.Store = store
	return module
}
