package salesops

import (
	"embed"

	"github.com/planora/planora/modules/salesops/infrastructure/persistence"
	"github.com/planora/planora/modules/salesops/presentation/controllers"
	"github.com/planora/planora/modules/salesops/services"
	"github.com/planora/planora/pkg/application"
)

//go:embed infrastructure/persistence/schema/salesops-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewSalesService(
			persistence.NewAccountRepository(),
			persistence.NewStageRepository(),
			app.EventPublisher(),
		),
	)
	app.RegisterControllers(
		controllers.NewSalesOpsController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "salesops"
}
