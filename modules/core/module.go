package core

import (
	"embed"

	"github.com/planora/planora/modules/core/infrastructure/persistence"
	"github.com/planora/planora/modules/core/infrastructure/storage"
	"github.com/planora/planora/modules/core/presentation/controllers"
	"github.com/planora/planora/modules/core/services"
	"github.com/planora/planora/pkg/application"
	"github.com/planora/planora/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/core-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	cfg := configuration.Use()
	app.Migrations().RegisterSchema(&MigrationFiles)

	userRepo := persistence.NewUserRepository()
	tenantRepo := persistence.NewTenantRepository()
	uploadRepo := persistence.NewUploadRepository()

	app.RegisterServices(
		services.NewAccessService(userRepo),
		services.NewUserService(userRepo, app.EventPublisher()),
		services.NewTenantService(tenantRepo),
		services.NewUploadService(
			uploadRepo,
			storage.NewLocalStorage(cfg.UploadsPath),
			app.EventPublisher(),
			cfg.MaxUploadSize,
		),
	)
	app.RegisterControllers(
		controllers.NewUsersController(app),
		controllers.NewTenantsController(app),
		controllers.NewUploadsController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "core"
}
