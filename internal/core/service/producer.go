// Package service provides domain services for deskshare.
package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/yndnr/deskshare-go/internal/core/domain"
)

// DefaultFrameInterval is the pause between capture cycles (~20 fps).
const DefaultFrameInterval = 50 * time.Millisecond

// Publisher accepts encoded frames for fan-out.
type Publisher interface {
	Publish(frame domain.Frame) int
}

// Producer captures the selected monitor on a fixed cadence and publishes
// each encoded frame.
type Producer struct {
	gate      *Gate
	capturer  Capturer
	encoder   Encoder
	publisher Publisher
	interval  time.Duration
	logger    *slog.Logger
	metrics   Metrics
}

// ProducerConfig configures a Producer.
type ProducerConfig struct {
	Gate      *Gate
	Capturer  Capturer
	Encoder   Encoder
	Publisher Publisher
	Interval  time.Duration
	Logger    *slog.Logger
	Metrics   Metrics
}

// NewProducer creates a producer. A zero interval means DefaultFrameInterval.
func NewProducer(cfg ProducerConfig) *Producer {
	p := &Producer{
		gate:      cfg.Gate,
		capturer:  cfg.Capturer,
		encoder:   cfg.Encoder,
		publisher: cfg.Publisher,
		interval:  cfg.Interval,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}
	if p.interval <= 0 {
		p.interval = DefaultFrameInterval
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.metrics == nil {
		p.metrics = NopMetrics{}
	}
	return p
}

// Run produces frames until ctx is cancelled. Failures of a single frame
// never stop the loop.
func (p *Producer) Run(ctx context.Context) {
	p.logger.Info("frame producer started", "interval", p.interval)
	defer p.logger.Info("frame producer stopped")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.Step(); err != nil {
			p.logger.Debug("frame skipped", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Step runs one capture, encode and publish cycle. It does nothing while no
// session is active.
func (p *Producer) Step() (err error) {
	if !p.gate.Active() {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			p.metrics.FrameSkipped("panic")
			err = domain.ErrCaptureFailed.WithDetails(fmt.Sprint(r))
		}
	}()

	index := p.gate.Monitor()

	img, err := p.capturer.Capture(index)
	if err != nil {
		p.metrics.FrameSkipped("capture")
		return domain.ErrCaptureFailed.WithCause(err)
	}

	data, err := p.encoder.Encode(img)
	if err != nil {
		p.metrics.FrameSkipped("encode")
		return domain.ErrEncodeFailed.WithCause(err)
	}

	p.publisher.Publish(domain.Frame{
		Payload:    base64.StdEncoding.EncodeToString(data),
		CapturedAt: time.Now(),
	})
	return nil
}
