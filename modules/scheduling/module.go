package scheduling

import (
	"embed"

	"github.com/planora/planora/modules/scheduling/infrastructure/persistence"
	"github.com/planora/planora/modules/scheduling/presentation/controllers"
	"github.com/planora/planora/modules/scheduling/services"
	"github.com/planora/planora/pkg/application"
)

//go:embed infrastructure/persistence/schema/scheduling-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewAssignmentService(persistence.NewAssignmentRepository(), app.EventPublisher()),
		services.NewWorkingDaysService(persistence.NewHolidayRepository()),
	)
	app.RegisterControllers(
		controllers.NewAssignmentsController(app),
		controllers.NewWorkingDaysController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "scheduling"
}
