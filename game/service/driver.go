package service

import (
	"context"
	"time"

	"github.com/wricardo/gecko-puzzle/logger"
)

// DefaultFrameInterval is how often the driver advances live sessions
const DefaultFrameInterval = 50 * time.Millisecond

// maxFrameStep caps the elapsed time fed to one frame after a stall
const maxFrameStep = time.Second

// LiveAdvancer advances every live-clock session by dt
type LiveAdvancer interface {
	AdvanceLive(dt time.Duration) int
}

// Driver feeds real elapsed time to live sessions on a fixed interval
type Driver struct {
	target   LiveAdvancer
	interval time.Duration
	now      func() time.Time
}

// NewDriver creates a frame driver; a non-positive interval uses the default
func NewDriver(target LiveAdvancer, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Driver{target: target, interval: interval, now: time.Now}
}

// Interval returns the frame interval
func (d *Driver) Interval() time.Duration {
	return d.interval
}

// Run ticks until ctx is cancelled
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	logger.Log.WithField("interval", d.interval).Debug("frame driver started")
	last := d.now()
	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("frame driver stopped")
			return
		case <-ticker.C:
			now := d.now()
			d.Step(now.Sub(last))
			last = now
		}
	}
}

// Step advances live sessions by one frame of elapsed time
func (d *Driver) Step(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > maxFrameStep {
		elapsed = maxFrameStep
	}
	return d.target.AdvanceLive(elapsed)
}
