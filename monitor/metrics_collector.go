package monitor

import (
	"sync"
	"time"
)

// BusMetricsCollector is an in-memory metrics collector for the event bus,
// keyed by destination (address or topic). It satisfies
// interceptors.MetricsCollector and can be extended with exporters
// (Prometheus, etc.) later.
type BusMetricsCollector struct {
	mu sync.RWMutex

	// Message counters by destination
	messageCounters map[string]int64

	// Error counters by destination and error type
	errorCounters map[string]map[string]int64

	// Processing time stats by destination
	processingTimes map[string]*TimeStats
}

// TimeStats tracks timing statistics for one destination
type TimeStats struct {
	Count   int64
	TotalMs int64
	MinMs   int64
	MaxMs   int64
}

// AvgMs returns the mean processing time in milliseconds.
func (s *TimeStats) AvgMs() int64 {
	if s.Count == 0 {
		return 0
	}
	return s.TotalMs / s.Count
}

// NewBusMetricsCollector creates a new in-memory metrics collector
func NewBusMetricsCollector() *BusMetricsCollector {
	return &BusMetricsCollector{
		messageCounters: make(map[string]int64),
		errorCounters:   make(map[string]map[string]int64),
		processingTimes: make(map[string]*TimeStats),
	}
}

// IncrementMessageCount implements interceptors.MetricsCollector
func (c *BusMetricsCollector) IncrementMessageCount(destination string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messageCounters[destination]++
}

// RecordProcessingTime implements interceptors.MetricsCollector
func (c *BusMetricsCollector) RecordProcessingTime(destination string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	durationMs := duration.Milliseconds()

	stats, exists := c.processingTimes[destination]
	if !exists {
		stats = &TimeStats{
			MinMs: durationMs,
			MaxMs: durationMs,
		}
		c.processingTimes[destination] = stats
	}

	stats.Count++
	stats.TotalMs += durationMs

	if durationMs < stats.MinMs {
		stats.MinMs = durationMs
	}
	if durationMs > stats.MaxMs {
		stats.MaxMs = durationMs
	}
}

// IncrementErrorCount implements interceptors.MetricsCollector
func (c *BusMetricsCollector) IncrementErrorCount(destination string, errorType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.errorCounters[destination] == nil {
		c.errorCounters[destination] = make(map[string]int64)
	}
	c.errorCounters[destination][errorType]++
}

// MessageCount returns the number of messages dispatched to a destination
func (c *BusMetricsCollector) MessageCount(destination string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.messageCounters[destination]
}

// ErrorCount returns the total number of errors for a destination
func (c *BusMetricsCollector) ErrorCount(destination string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total int64
	for _, count := range c.errorCounters[destination] {
		total += count
	}
	return total
}

// ProcessingTime returns a copy of the timing stats for a destination
func (c *BusMetricsCollector) ProcessingTime(destination string) (TimeStats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats, ok := c.processingTimes[destination]
	if !ok {
		return TimeStats{}, false
	}
	return *stats, true
}

// Snapshot returns a point-in-time copy of all collected metrics
func (c *BusMetricsCollector) Snapshot() MetricsSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := MetricsSnapshot{
		Timestamp:       time.Now(),
		MessageCounters: make(map[string]int64, len(c.messageCounters)),
		ErrorCounters:   make(map[string]map[string]int64, len(c.errorCounters)),
		ProcessingTimes: make(map[string]TimeStats, len(c.processingTimes)),
	}

	for dest, count := range c.messageCounters {
		snapshot.MessageCounters[dest] = count
	}
	for dest, byType := range c.errorCounters {
		typesCopy := make(map[string]int64, len(byType))
		for errType, count := range byType {
			typesCopy[errType] = count
		}
		snapshot.ErrorCounters[dest] = typesCopy
	}
	for dest, stats := range c.processingTimes {
		snapshot.ProcessingTimes[dest] = *stats
	}

	return snapshot
}

// MetricsSnapshot is a point-in-time copy of collected metrics
type MetricsSnapshot struct {
	Timestamp       time.Time
	MessageCounters map[string]int64
	ErrorCounters   map[string]map[string]int64
	ProcessingTimes map[string]TimeStats
}
