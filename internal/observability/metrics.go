package observability

import (
	"sync/atomic"
)

// MetricsCollector receives pipeline counters. Implementations must be
// safe for concurrent use by consumer workers.
type MetricsCollector interface {
	IncReceived()
	IncProcessed()
	IncRetried()
	IncDropped()
	IncExhausted()
	IncPublished()
	IncPublishFailed()
}

// InMemoryMetrics is a simple in-memory implementation for testing/demo
type InMemoryMetrics struct {
	Received      atomic.Int64
	Processed     atomic.Int64
	Retried       atomic.Int64
	Dropped       atomic.Int64
	Exhausted     atomic.Int64
	Published     atomic.Int64
	PublishFailed atomic.Int64
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{}
}

func (m *InMemoryMetrics) IncReceived()      { m.Received.Add(1) }
func (m *InMemoryMetrics) IncProcessed()     { m.Processed.Add(1) }
func (m *InMemoryMetrics) IncRetried()       { m.Retried.Add(1) }
func (m *InMemoryMetrics) IncDropped()       { m.Dropped.Add(1) }
func (m *InMemoryMetrics) IncExhausted()     { m.Exhausted.Add(1) }
func (m *InMemoryMetrics) IncPublished()     { m.Published.Add(1) }
func (m *InMemoryMetrics) IncPublishFailed() { m.PublishFailed.Add(1) }

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Received      int64
	Processed     int64
	Retried       int64
	Dropped       int64
	Exhausted     int64
	Published     int64
	PublishFailed int64
}

func (m *InMemoryMetrics) Snapshot() Snapshot {
	return Snapshot{
		Received:      m.Received.Load(),
		Processed:     m.Processed.Load(),
		Retried:       m.Retried.Load(),
		Dropped:       m.Dropped.Load(),
		Exhausted:     m.Exhausted.Load(),
		Published:     m.Published.Load(),
		PublishFailed: m.PublishFailed.Load(),
	}
}
