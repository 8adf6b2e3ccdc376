package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRealTimerFiresAfterDuration(t *testing.T) {
	timer := NewRealTimer()
	require.False(t, timer.IsSet())

	timer.Start(10 * time.Millisecond)
	require.True(t, timer.IsSet())

	select {
	case <-timer.C():
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
	require.False(t, timer.IsSet())
}

func TestRealTimerStopPreventsFiring(t *testing.T) {
	timer := NewRealTimer()
	timer.Start(20 * time.Millisecond)
	timer.Stop()
	require.False(t, timer.IsSet())

	select {
	case <-timer.C():
		t.Fatal("stopped timer should not fire")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRealTimerRestartReplacesPriorArming(t *testing.T) {
	timer := NewRealTimer()
	timer.Start(5 * time.Millisecond)
	timer.Start(50 * time.Millisecond)

	start := time.Now()
	select {
	case <-timer.C():
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
	require.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}
