package logging

import (
	"embed"

	"github.com/planora/planora/modules/logging/infrastructure/persistence"
	"github.com/planora/planora/modules/logging/presentation/controllers"
	"github.com/planora/planora/modules/logging/services"
	"github.com/planora/planora/pkg/application"
)

//go:embed infrastructure/persistence/schema/logging-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)
	logsService := services.NewLogsService(persistence.NewLoginAuditRepository(), app.Logger())
	logsService.RegisterEventHandlers(app.EventPublisher())
	app.RegisterServices(logsService)
	app.RegisterControllers(
		controllers.NewLogsController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "logging"
}
