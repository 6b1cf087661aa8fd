package api

import (
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// requestCounters accumulates per-action dispatch outcomes for the
// metrics endpoint. All counters are monotonic since process start.
type requestCounters struct {
	commandsPublished atomic.Uint64
	commandFailures   atomic.Uint64
	statusServed      atomic.Uint64
	statusNoData      atomic.Uint64
	statusFailures    atomic.Uint64
	rejected          atomic.Uint64
}

// record classifies one completed dispatch by action and status.
func (c *requestCounters) record(action string, status int) {
	switch action {
	case actionSendCommand:
		if status == http.StatusOK {
			c.commandsPublished.Add(1)
		} else {
			c.commandFailures.Add(1)
		}
	case actionGetStatus:
		switch status {
		case http.StatusOK:
			c.statusServed.Add(1)
		case http.StatusNotFound:
			c.statusNoData.Add(1)
		default:
			c.statusFailures.Add(1)
		}
	default:
		c.rejected.Add(1)
	}
}

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string           `json:"timestamp"`
	Version       string           `json:"version"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Runtime       RuntimeMetrics   `json:"runtime"`
	Requests      RequestMetrics   `json:"requests"`
	Bridge        BridgeMetrics    `json:"bridge"`
	Telemetry     TelemetryMetrics `json:"telemetry"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// RequestMetrics contains dispatch endpoint statistics.
type RequestMetrics struct {
	CommandsPublished uint64 `json:"commands_published"`
	CommandFailures   uint64 `json:"command_failures"`
	StatusServed      uint64 `json:"status_served"`
	StatusNoData      uint64 `json:"status_no_data"`
	StatusFailures    uint64 `json:"status_failures"`
	Rejected          uint64 `json:"rejected"`
}

// BridgeMetrics reports whether the dispatch surface is wired.
type BridgeMetrics struct {
	Configured bool `json:"configured"`
}

// TelemetryMetrics contains audit sink statistics.
type TelemetryMetrics struct {
	Enabled   bool `json:"enabled"`
	Connected bool `json:"connected"`
}

// handleMetrics returns comprehensive system metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	// Collect runtime stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		Requests: RequestMetrics{
			CommandsPublished: s.counters.commandsPublished.Load(),
			CommandFailures:   s.counters.commandFailures.Load(),
			StatusServed:      s.counters.statusServed.Load(),
			StatusNoData:      s.counters.statusNoData.Load(),
			StatusFailures:    s.counters.statusFailures.Load(),
			Rejected:          s.counters.rejected.Load(),
		},
		Bridge: BridgeMetrics{
			Configured: s.bridge != nil,
		},
		Telemetry: TelemetryMetrics{
			Enabled:   s.telemetry != nil,
			Connected: s.telemetry.IsConnected(),
		},
	}

	writeJSON(w, http.StatusOK, metrics)
}
