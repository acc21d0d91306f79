package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFPSCounter_Average(t *testing.T) {
	f := NewFPSCounter(4)
	assert.Equal(t, 0.0, f.FPS(), "empty counter")

	f.Add(10 * time.Millisecond)
	f.Add(30 * time.Millisecond)
	assert.InDelta(t, 50.0, f.FPS(), 1e-9, "two frames averaging 20ms")
	assert.Equal(t, 20*time.Millisecond, f.FrameTime())
}

func TestFPSCounter_WindowDropsOldest(t *testing.T) {
	f := NewFPSCounter(2)
	f.Add(100 * time.Millisecond)
	f.Add(10 * time.Millisecond)
	f.Add(10 * time.Millisecond)
	assert.InDelta(t, 100.0, f.FPS(), 1e-9, "oldest slow frame rolled out")
}

func TestFPSCounter_IgnoresZeroAndResets(t *testing.T) {
	f := NewFPSCounter(3)
	f.Add(0)
	assert.Equal(t, 0.0, f.FPS())

	f.Add(25 * time.Millisecond)
	f.Reset()
	assert.Equal(t, 0.0, f.FPS())
	assert.Equal(t, time.Duration(0), f.FrameTime())
}

func TestMemorySampler_ReadsRSS(t *testing.T) {
	m, err := NewMemorySampler()
	if err != nil {
		t.Skipf("process info unavailable: %v", err)
	}
	rss, err := m.RSSMB()
	if err != nil {
		t.Skipf("memory info unavailable: %v", err)
	}
	assert.Greater(t, rss, 0.0)
	assert.Equal(t, rss, m.Last())
}

func TestMemorySampler_Nil(t *testing.T) {
	var m *MemorySampler
	rss, err := m.RSSMB()
	assert.NoError(t, err)
	assert.Equal(t, 0.0, rss)
}
