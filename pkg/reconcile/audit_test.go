package reconcile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/configkit/ddmigrate/pkg/reconcile"
)

func TestEntryString(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	entry := reconcile.Entry{Time: at, Subject: "cpu", Action: reconcile.ActionDecisionRemove}
	assert.Equal(t, "[2026-03-14 09:26:53] decision-remove: cpu", entry.String())

	entry.Action = reconcile.ActionDecisionKeep
	entry.Detail = "implicit keep after cancellation"
	assert.Equal(t, "[2026-03-14 09:26:53] decision-keep: cpu - implicit keep after cancellation", entry.String())
}

func TestLogPreservesOrder(t *testing.T) {
	log := reconcile.NewLog()
	log.Record(reconcile.Entry{Subject: "version", Action: reconcile.ActionRemovedCommonKey})
	log.Record(reconcile.Entry{Subject: "cpu", Action: reconcile.ActionSanitizedDashboard})
	log.Record(reconcile.Entry{Subject: "cpu", Action: reconcile.ActionClassifiedExact})

	entries := log.Entries()
	assert.Equal(t, 3, log.Len())
	assert.Equal(t, reconcile.ActionRemovedCommonKey, entries[0].Action)
	assert.Equal(t, reconcile.ActionSanitizedDashboard, entries[1].Action)
	assert.Equal(t, reconcile.ActionClassifiedExact, entries[2].Action)
}

func TestLogFillsTimestamp(t *testing.T) {
	log := reconcile.NewLog()
	log.Record(reconcile.Entry{Subject: "cpu", Action: reconcile.ActionClassifiedExact})
	assert.False(t, log.Entries()[0].Time.IsZero())
}

func TestLogEntriesIsACopy(t *testing.T) {
	log := reconcile.NewLog()
	log.Record(reconcile.Entry{Subject: "cpu", Action: reconcile.ActionClassifiedExact})

	entries := log.Entries()
	entries[0].Subject = "tampered"
	assert.Equal(t, "cpu", log.Entries()[0].Subject)
}
