package modules

import (
	"github.com/planora/planora/modules/core"
	"github.com/planora/planora/modules/directory"
	"github.com/planora/planora/modules/logging"
	"github.com/planora/planora/modules/salesops"
	"github.com/planora/planora/modules/scheduling"
	"github.com/planora/planora/pkg/application"
)

var BuiltInModules = []application.Module{
	core.NewModule(),
	directory.NewModule(),
	scheduling.NewModule(),
	salesops.NewModule(),
	logging.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
