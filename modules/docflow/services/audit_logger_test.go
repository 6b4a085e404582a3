package services

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/adi-digital/docscriptum/modules/docflow/domain/aggregates/grd"
	"github.com/adi-digital/docscriptum/pkg/eventbus"
)

func newAuditBus() (eventbus.EventBus, *test.Hook) {
	logger, hook := test.NewNullLogger()
	bus := eventbus.NewEventPublisher(logger)
	audit := NewAuditLogger(logger)
	bus.Subscribe(audit.OnRequestEvent)
	bus.Subscribe(audit.OnGRDIssued)
	return bus, hook
}

func TestAuditLogger_ReceivesRequestEvents(t *testing.T) {
	bus, hook := newAuditBus()

	bus.Publish("request.created", waitingAdmRequest(1))
	bus.Publish("request.transitioned", waitingAdmRequest(1))

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	require.Equal(t, "request.created", entries[0].Data["event"])
	require.Equal(t, "REQ-2026-A1B2C3", entries[0].Data["request_number"])
	require.Equal(t, "WAITING_ADM", entries[0].Data["status"])
	require.Equal(t, "request.transitioned", entries[1].Data["event"])
	require.Equal(t, logrus.InfoLevel, entries[0].Level)
}

func TestAuditLogger_ReceivesGRDIssued(t *testing.T) {
	bus, hook := newAuditBus()

	issued := grd.Hydrate(
		3, "GRD-2026-000001", "PROT-2026-000001",
		1, 1, 2, 3,
		"Construction release", "COURIER", "", "admin",
		time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC), grd.StatusIssued,
		[]grd.Item{{DocumentID: 10, Code: "DOC-001", Title: "Plan", Revision: 2}},
	)
	bus.Publish("grd.issued", issued)

	entries := hook.AllEntries()
	require.Len(t, entries, 1)
	require.Equal(t, "grd.issued", entries[0].Data["event"])
	require.Equal(t, "GRD-2026-000001", entries[0].Data["grd_number"])
	require.Equal(t, "PROT-2026-000001", entries[0].Data["protocol"])
	require.Equal(t, int64(1), entries[0].Data["request_id"])
}

func TestAuditLogger_IgnoresOtherEventShapes(t *testing.T) {
	bus, hook := newAuditBus()

	bus.Publish("document.revision_advanced", struct{ ID int64 }{10})

	for _, e := range hook.AllEntries() {
		require.NotContains(t, e.Data, "event")
	}
}
