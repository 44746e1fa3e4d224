package worker

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookkeeper/internal/events"
	"bookkeeper/internal/log"
)

func testAuditor() *Auditor {
	return NewAuditor(log.New(log.Config{
		Component: log.ComponentEvents,
		Handler:   slog.NewTextHandler(io.Discard, nil),
	}))
}

func TestAuditorCountsHandledChanges(t *testing.T) {
	a := testAuditor()

	require.NoError(t, a.Handle(events.NewEntityChange(events.EntityProfile, events.ActionCreated, 1, "Main")))
	require.NoError(t, a.Handle(events.NewEntityChange(events.EntityProfile, events.ActionCreated, 2, "Savings")))
	require.NoError(t, a.Handle(events.NewEntityChange(events.EntityExpense, events.ActionDeleted, 7, "")))

	assert.Equal(t, int64(2), a.Count(events.EntityProfile, events.ActionCreated))
	assert.Equal(t, int64(1), a.Count(events.EntityExpense, events.ActionDeleted))
	assert.Equal(t, int64(0), a.Count(events.EntityProfile, events.ActionDeleted))
}

func TestAuditorAcceptsUnknownEntities(t *testing.T) {
	a := testAuditor()

	require.NoError(t, a.Handle(events.NewEntityChange("budget", "archived", 3, "Q3")))
	assert.Equal(t, int64(1), a.Count("budget", "archived"))
}
