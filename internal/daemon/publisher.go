package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wayice/wayice/internal/snapshot"
	"github.com/wayice/wayice/internal/surface"
)

const defaultInterval = time.Second

// WindowSource supplies the window table and outputs for one snapshot.
type WindowSource interface {
	Windows() ([]surface.Window, error)
	Outputs() ([]surface.Output, error)
}

// SegmentWriter stores a value in a named shared-memory segment. Failures
// are the writer's to log.
type SegmentWriter interface {
	Publish(segment, value string)
}

// PublisherConfig holds configuration for the publish loop.
type PublisherConfig struct {
	Interval       time.Duration
	WindowsSegment string
	// OutputsSegment is skipped when empty.
	OutputsSegment string
	Builder        snapshot.Builder
	Logger         *slog.Logger
}

// Publisher periodically snapshots a WindowSource into shared memory.
type Publisher struct {
	source WindowSource
	writer SegmentWriter
	logger *slog.Logger

	builder        snapshot.Builder
	windowsSegment string
	outputsSegment string

	mu       sync.Mutex
	interval time.Duration

	notify chan struct{}
	reset  chan struct{}
}

// NewPublisher creates a publish loop. A non-positive interval means one
// second.
func NewPublisher(cfg PublisherConfig, source WindowSource, writer SegmentWriter) *Publisher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Publisher{
		source:         source,
		writer:         writer,
		logger:         logger,
		builder:        cfg.Builder,
		windowsSegment: cfg.WindowsSegment,
		outputsSegment: cfg.OutputsSegment,
		interval:       interval,
		notify:         make(chan struct{}, 1),
		reset:          make(chan struct{}, 1),
	}
}

// Interval returns the current tick period.
func (p *Publisher) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// SetInterval changes the tick period of a running loop.
func (p *Publisher) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	changed := p.interval != d
	p.interval = d
	p.mu.Unlock()
	if changed {
		signal(p.reset)
	}
}

// Notify requests a publish outside the regular tick. Calls made while one
// is already pending coalesce; Notify never blocks.
func (p *Publisher) Notify() {
	signal(p.notify)
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Run publishes once, then on every tick and notification until ctx is
// cancelled.
func (p *Publisher) Run(ctx context.Context) {
	interval := p.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.logger.Info("publisher started",
		"interval", interval,
		"windows_segment", p.windowsSegment,
		"outputs_segment", p.outputsSegment)

	p.PublishNow()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("publisher stopped")
			return
		case <-p.reset:
			interval = p.Interval()
			ticker.Reset(interval)
			p.logger.Info("publish interval changed", "interval", interval)
		case <-p.notify:
			p.PublishNow()
		case <-ticker.C:
			p.PublishNow()
		}
	}
}

// PublishNow performs a single publish pass.
func (p *Publisher) PublishNow() {
	// Recover from panics in the source to keep the daemon up
	defer func() {
		if err := recover(); err != nil {
			p.logger.Error("publisher panic recovered", "error", err)
		}
	}()

	windows, err := p.source.Windows()
	if err != nil {
		p.logger.Error("publisher: failed to list windows", "error", err)
	} else {
		records := p.builder.Windows(windows)
		doc, err := snapshot.Encode(records)
		if err != nil {
			p.logger.Error("publisher: failed to encode windows", "error", err)
		} else {
			p.writer.Publish(p.windowsSegment, doc)
		}
	}

	if p.outputsSegment == "" {
		return
	}
	outputs, err := p.source.Outputs()
	if err != nil {
		p.logger.Warn("publisher: failed to list outputs", "error", err)
		return
	}
	doc, err := snapshot.EncodeOutputs(snapshot.Outputs(outputs))
	if err != nil {
		p.logger.Error("publisher: failed to encode outputs", "error", err)
		return
	}
	p.writer.Publish(p.outputsSegment, doc)
}
