package registry

import (
	"embed"

	"github.com/adi-digital/docscriptum/modules/registry/infrastructure/persistence"
	"github.com/adi-digital/docscriptum/modules/registry/presentation/controllers"
	"github.com/adi-digital/docscriptum/modules/registry/services"
	"github.com/adi-digital/docscriptum/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.RegisterMigrations(&migrationFiles)

	app.RegisterServices(
		services.NewOrganizationService(persistence.NewOrganizationRepository(), app.EventPublisher()),
		services.NewProjectService(persistence.NewProjectRepository(), app.EventPublisher()),
		services.NewDocumentService(persistence.NewDocumentRepository(), app.EventPublisher()),
	)

	app.RegisterControllers(
		controllers.NewOrganizationAPIController(app),
		controllers.NewProjectAPIController(app),
		controllers.NewDocumentAPIController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "registry"
}
