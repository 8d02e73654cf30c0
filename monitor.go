package lottery

import (
	"sync"
	"sync/atomic"
	"time"
)

// RoundMetrics collects draw and round statistics
type RoundMetrics struct {
	// Draw statistics
	TotalDraws      int64 `json:"total_draws"`
	SuccessfulDraws int64 `json:"successful_draws"`
	FailedDraws     int64 `json:"failed_draws"`

	// Round statistics
	TotalRounds      int64 `json:"total_rounds"`
	SuccessfulRounds int64 `json:"successful_rounds"`
	FailedRounds     int64 `json:"failed_rounds"`

	// Timing (nanoseconds)
	TotalDrawTime   int64 `json:"total_draw_time"`
	AverageDrawTime int64 `json:"average_draw_time"`
	TotalRoundTime  int64 `json:"total_round_time"`

	// Timestamps
	StartTime      int64 `json:"start_time"`
	LastUpdateTime int64 `json:"last_update_time"`
}

// GetDrawSuccessRate returns the draw success rate as a percentage
func (rm *RoundMetrics) GetDrawSuccessRate() float64 {
	total := atomic.LoadInt64(&rm.TotalDraws)
	if total == 0 {
		return 0.0
	}
	successful := atomic.LoadInt64(&rm.SuccessfulDraws)
	return float64(successful) / float64(total) * 100.0
}

// GetAverageRoundTime returns the mean duration of a completed round
func (rm *RoundMetrics) GetAverageRoundTime() time.Duration {
	rounds := atomic.LoadInt64(&rm.TotalRounds)
	if rounds == 0 {
		return 0
	}
	totalTime := atomic.LoadInt64(&rm.TotalRoundTime)
	return time.Duration(totalTime / rounds)
}

// Reset clears all metrics
func (rm *RoundMetrics) Reset() {
	atomic.StoreInt64(&rm.TotalDraws, 0)
	atomic.StoreInt64(&rm.SuccessfulDraws, 0)
	atomic.StoreInt64(&rm.FailedDraws, 0)
	atomic.StoreInt64(&rm.TotalRounds, 0)
	atomic.StoreInt64(&rm.SuccessfulRounds, 0)
	atomic.StoreInt64(&rm.FailedRounds, 0)
	atomic.StoreInt64(&rm.TotalDrawTime, 0)
	atomic.StoreInt64(&rm.AverageDrawTime, 0)
	atomic.StoreInt64(&rm.TotalRoundTime, 0)
	atomic.StoreInt64(&rm.StartTime, time.Now().UnixNano())
	atomic.StoreInt64(&rm.LastUpdateTime, time.Now().UnixNano())
}

// RoundMonitor records per-draw and per-round statistics for an engine
type RoundMonitor struct {
	metrics *RoundMetrics
	mu      sync.RWMutex
	enabled bool
}

// NewRoundMonitor creates an enabled round monitor
func NewRoundMonitor() *RoundMonitor {
	rm := &RoundMonitor{
		metrics: &RoundMetrics{},
		enabled: true,
	}
	rm.metrics.Reset()
	return rm
}

// Enable turns monitoring on
func (rm *RoundMonitor) Enable() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.enabled = true
}

// Disable turns monitoring off
func (rm *RoundMonitor) Disable() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.enabled = false
}

// IsEnabled reports whether monitoring is on
func (rm *RoundMonitor) IsEnabled() bool {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	return rm.enabled
}

// RecordDraw records one ticket draw
func (rm *RoundMonitor) RecordDraw(success bool, duration time.Duration) {
	if !rm.IsEnabled() {
		return
	}

	atomic.AddInt64(&rm.metrics.TotalDraws, 1)
	atomic.AddInt64(&rm.metrics.TotalDrawTime, int64(duration))

	if success {
		atomic.AddInt64(&rm.metrics.SuccessfulDraws, 1)
	} else {
		atomic.AddInt64(&rm.metrics.FailedDraws, 1)
	}

	totalDraws := atomic.LoadInt64(&rm.metrics.TotalDraws)
	totalTime := atomic.LoadInt64(&rm.metrics.TotalDrawTime)
	atomic.StoreInt64(&rm.metrics.AverageDrawTime, totalTime/totalDraws)

	atomic.StoreInt64(&rm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordRound records one complete PlayGame invocation
func (rm *RoundMonitor) RecordRound(success bool, duration time.Duration) {
	if !rm.IsEnabled() {
		return
	}

	atomic.AddInt64(&rm.metrics.TotalRounds, 1)
	atomic.AddInt64(&rm.metrics.TotalRoundTime, int64(duration))

	if success {
		atomic.AddInt64(&rm.metrics.SuccessfulRounds, 1)
	} else {
		atomic.AddInt64(&rm.metrics.FailedRounds, 1)
	}

	atomic.StoreInt64(&rm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// GetMetrics returns a copy of the current metrics
func (rm *RoundMonitor) GetMetrics() RoundMetrics {
	return RoundMetrics{
		TotalDraws:       atomic.LoadInt64(&rm.metrics.TotalDraws),
		SuccessfulDraws:  atomic.LoadInt64(&rm.metrics.SuccessfulDraws),
		FailedDraws:      atomic.LoadInt64(&rm.metrics.FailedDraws),
		TotalRounds:      atomic.LoadInt64(&rm.metrics.TotalRounds),
		SuccessfulRounds: atomic.LoadInt64(&rm.metrics.SuccessfulRounds),
		FailedRounds:     atomic.LoadInt64(&rm.metrics.FailedRounds),
		TotalDrawTime:    atomic.LoadInt64(&rm.metrics.TotalDrawTime),
		AverageDrawTime:  atomic.LoadInt64(&rm.metrics.AverageDrawTime),
		TotalRoundTime:   atomic.LoadInt64(&rm.metrics.TotalRoundTime),
		StartTime:        atomic.LoadInt64(&rm.metrics.StartTime),
		LastUpdateTime:   atomic.LoadInt64(&rm.metrics.LastUpdateTime),
	}
}

// ResetMetrics resets all metrics
func (rm *RoundMonitor) ResetMetrics() { rm.metrics.Reset() }
