package directory

import (
	"embed"

	"github.com/planora/planora/modules/directory/infrastructure/persistence"
	"github.com/planora/planora/modules/directory/presentation/controllers"
	"github.com/planora/planora/modules/directory/services"
	"github.com/planora/planora/pkg/application"
)

//go:embed infrastructure/persistence/schema/directory-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewPersonService(persistence.NewPersonRepository(), app.EventPublisher()),
		services.NewOfficeService(persistence.NewOfficeRepository(), app.EventPublisher()),
	)
	app.RegisterControllers(
		controllers.NewPeopleController(app),
		controllers.NewOfficesController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "directory"
}
