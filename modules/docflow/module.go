package docflow

import (
	"embed"

	"github.com/adi-digital/docscriptum/modules/docflow/infrastructure/mailer"
	"github.com/adi-digital/docscriptum/modules/docflow/infrastructure/persistence"
	"github.com/adi-digital/docscriptum/modules/docflow/presentation/controllers"
	"github.com/adi-digital/docscriptum/modules/docflow/services"
	"github.com/adi-digital/docscriptum/pkg/application"
	"github.com/adi-digital/docscriptum/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.RegisterMigrations(&migrationFiles)

	conf := configuration.Use()
	requests := persistence.NewRequestRepository()
	grds := persistence.NewGRDRepository()
	revisions := persistence.NewPgRevisionStore()

	app.RegisterServices(
		services.NewRequestService(requests, app.EventPublisher()),
		services.NewGRDService(grds, requests, revisions, app.EventPublisher()),
		services.NewNotificationService(
			requests,
			revisions,
			mailer.NewSMTPSender(conf.Mail),
			app.EventPublisher(),
			conf.Mail.Timeout,
		),
	)

	audit := services.NewAuditLogger(app.Logger())
	app.EventPublisher().Subscribe(audit.OnRequestEvent)
	app.EventPublisher().Subscribe(audit.OnGRDIssued)

	app.RegisterControllers(
		controllers.NewRequestAPIController(app),
		controllers.NewGRDAPIController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "docflow"
}
