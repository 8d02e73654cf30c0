package lottery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundMonitor(t *testing.T) {
	t.Run("records draws and rounds", func(t *testing.T) {
		monitor := NewRoundMonitor()

		monitor.RecordDraw(true, 10*time.Millisecond)
		monitor.RecordDraw(true, 10*time.Millisecond)
		monitor.RecordDraw(false, 10*time.Millisecond)
		monitor.RecordRound(true, 100*time.Millisecond)
		monitor.RecordRound(false, 50*time.Millisecond)

		metrics := monitor.GetMetrics()
		assert.Equal(t, int64(3), metrics.TotalDraws)
		assert.Equal(t, int64(2), metrics.SuccessfulDraws)
		assert.Equal(t, int64(1), metrics.FailedDraws)
		assert.Equal(t, int64(2), metrics.TotalRounds)
		assert.Equal(t, int64(1), metrics.SuccessfulRounds)
		assert.Equal(t, int64(1), metrics.FailedRounds)
	})

	t.Run("disabled monitor records nothing", func(t *testing.T) {
		monitor := NewRoundMonitor()
		monitor.Disable()
		assert.False(t, monitor.IsEnabled())

		monitor.RecordDraw(true, time.Millisecond)
		monitor.RecordRound(true, time.Millisecond)

		metrics := monitor.GetMetrics()
		assert.Equal(t, int64(0), metrics.TotalDraws)
		assert.Equal(t, int64(0), metrics.TotalRounds)

		monitor.Enable()
		monitor.RecordDraw(true, time.Millisecond)
		assert.Equal(t, int64(1), monitor.GetMetrics().TotalDraws)
	})

	t.Run("success rate is a percentage", func(t *testing.T) {
		monitor := NewRoundMonitor()

		empty := monitor.GetMetrics()
		assert.Equal(t, 0.0, empty.GetDrawSuccessRate())

		monitor.RecordDraw(true, time.Millisecond)
		monitor.RecordDraw(true, time.Millisecond)
		monitor.RecordDraw(false, time.Millisecond)

		metrics := monitor.GetMetrics()
		assert.InDelta(t, 200.0/3.0, metrics.GetDrawSuccessRate(), 0.0001)
	})

	t.Run("reset clears counters", func(t *testing.T) {
		monitor := NewRoundMonitor()
		monitor.RecordDraw(true, time.Millisecond)
		monitor.RecordRound(true, time.Millisecond)

		monitor.ResetMetrics()

		metrics := monitor.GetMetrics()
		assert.Equal(t, int64(0), metrics.TotalDraws)
		assert.Equal(t, int64(0), metrics.TotalRounds)
	})
}
