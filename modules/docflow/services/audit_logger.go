package services

import (
	"github.com/sirupsen/logrus"

	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/grd"
	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/request"
)

// AuditLogger subscribes to the lifecycle events the services publish and
// writes one structured line per event, so every status change stays
// traceable without a dedicated audit table.
type AuditLogger struct {
	log *logrus.Logger
}

func NewAuditLogger(log *logrus.Logger) *AuditLogger {
	return &AuditLogger{log: log}
}

// OnRequestEvent handles request.created, request.transitioned and
// request.correction_requested.
func (a *AuditLogger) OnRequestEvent(event string, req request.Request) {
	a.log.WithFields(logrus.Fields{
		"event":          event,
		"request_id":     req.ID(),
		"request_number": req.Number(),
		"status":         string(req.Status()),
	}).Info("transmittal request event")
}

// OnGRDIssued handles grd.issued.
func (a *AuditLogger) OnGRDIssued(event string, issued grd.GRD) {
	a.log.WithFields(logrus.Fields{
		"event":      event,
		"grd_id":     issued.ID(),
		"grd_number": issued.Number(),
		"protocol":   issued.Protocol(),
		"request_id": issued.RequestID(),
	}).Info("grd issued")
}
