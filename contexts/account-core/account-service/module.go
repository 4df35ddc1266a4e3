package accountservice

import (
	"log/slog"

	"carbono/contexts/account-core/account-service/adapters/credentials"
	httpadapter "carbono/contexts/account-core/account-service/adapters/http"
	"carbono/contexts/account-core/account-service/adapters/memory"
	"carbono/contexts/account-core/account-service/application"
	"carbono/contexts/account-core/account-service/ports"
	"carbono/internal/shared/minting"
)

// Module is the account-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository ports.Repository
	Hasher     ports.CredentialHasher
	Clock      ports.Clock
	Minter     minting.Minter
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Hasher: deps.Hasher,
		Minter: deps.Minter,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// persistence and the default bcrypt hasher.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Hasher:     credentials.BcryptHasher{Cost: 4},
		Clock:      store,
		Minter:     minting.Minter{Logger: logger},
		Logger:     logger,
	})
	module.Store = store
	return module
}
