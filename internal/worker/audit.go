// Package worker consumes entity change messages from the broker and keeps
// an audit trail of everything the API publishes.
package worker

import (
	"sync"

	"bookkeeper/internal/events"
	"bookkeeper/internal/log"
)

// Auditor logs each entity change and keeps per-entity counters so a running
// worker can report what it has processed.
type Auditor struct {
	logger *log.Logger

	mu     sync.Mutex
	counts map[string]int64
}

func NewAuditor(logger *log.Logger) *Auditor {
	return &Auditor{
		logger: logger.WithComponent(log.ComponentEvents),
		counts: make(map[string]int64),
	}
}

// Handle records one entity change. Unknown entities and actions are logged
// and counted rather than rejected, so a newer producer cannot wedge the
// queue in a requeue loop.
func (a *Auditor) Handle(msg *events.EntityChange) error {
	a.mu.Lock()
	a.counts[msg.Entity+"."+msg.Action]++
	a.mu.Unlock()

	a.logger.Info("entity change",
		"entity", msg.Entity,
		"action", msg.Action,
		"id", msg.ID,
		"name", msg.Name)
	return nil
}

// Count reports how many changes with the given entity and action have been
// handled.
func (a *Auditor) Count(entity, action string) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts[entity+"."+action]
}
