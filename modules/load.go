package modules

import (
	"github.com/adi-digital/docscriptum/modules/docflow"
	"github.com/adi-digital/docscriptum/modules/registry"
	"github.com/adi-digital/docscriptum/pkg/application"
)

// BuiltInModules in registration order: docflow's schema references
// registry tables, so registry migrates first.
var BuiltInModules = []application.Module{
	registry.NewModule(),
	docflow.NewModule(),
}

func Load(app application.Application, mods ...application.Module) error {
	for _, module := range mods {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
