// Package servicetest provides in-memory service doubles for use case and handler tests.
package servicetest

import (
	"context"
	"sync"

	"github.com/itww/admin-api/internal/application/service"
)

// RecordingPublisher keeps every published event.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []service.DomainEvent
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, evt service.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.Err
}

func (p *RecordingPublisher) Events() []service.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]service.DomainEvent(nil), p.events...)
}
