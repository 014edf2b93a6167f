package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/benmeehan/push-agent/internal/constants"
	"github.com/benmeehan/push-agent/internal/models"
	"github.com/benmeehan/push-agent/pkg/push"
)

// HeartbeatService pushes a fixed heartbeat payload on a fixed interval.
type HeartbeatService struct {
	Interval time.Duration
	Payload  models.PushPayload
	Pusher   push.Pusher
	Logger   zerolog.Logger

	attempts atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewHeartbeatService initializes a new HeartbeatService.
func NewHeartbeatService(interval time.Duration, payload models.PushPayload, pusher push.Pusher,
	logger zerolog.Logger) *HeartbeatService {

	return &HeartbeatService{
		Interval: interval,
		Payload:  payload,
		Pusher:   pusher,
		Logger:   logger,
	}
}

// Start launches the heartbeat loop in a separate goroutine.
func (h *HeartbeatService) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ctx != nil {
		h.Logger.Warn().Msg("HeartbeatService is already running")
		return errors.New("heartbeat service is already running")
	}

	h.ctx, h.cancel = context.WithCancel(context.Background())

	h.wg.Add(1)
	go func(ctx context.Context) {
		defer h.wg.Done()
		h.Run(ctx)
	}(h.ctx)

	h.Logger.Info().Dur("interval", h.Interval).Msg("HeartbeatService started successfully")
	return nil
}

// Stop cancels the loop, including an in-flight push, and waits for it to exit.
func (h *HeartbeatService) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ctx == nil {
		h.Logger.Warn().Msg("HeartbeatService is not running")
		return errors.New("heartbeat service is not running")
	}

	h.cancel()
	h.wg.Wait()

	h.ctx = nil
	h.cancel = nil

	h.Logger.Info().Msg("HeartbeatService stopped successfully")
	return nil
}

// Run alternates between pushing and sleeping until ctx is cancelled.
// The first push happens immediately.
func (h *HeartbeatService) Run(ctx context.Context) {
	for {
		result := h.PushOnce(ctx)
		if ctx.Err() != nil {
			h.Logger.Info().Msg("HeartbeatService stopping gracefully")
			return
		}
		h.logResult(result)

		h.Logger.Debug().Dur("interval", h.Interval).Msg("Sleeping until next heartbeat")
		timer := time.NewTimer(h.Interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			h.Logger.Info().Msg("HeartbeatService stopping gracefully")
			return
		}
	}
}

// PushOnce performs a single push cycle and returns its outcome.
// A push interrupted by ctx cancellation is not counted as an attempt.
func (h *HeartbeatService) PushOnce(ctx context.Context) models.PushResult {
	result := h.Pusher.Push(ctx, h.Payload)
	if ctx.Err() != nil {
		return result
	}
	result.Attempt = h.attempts.Add(1)
	return result
}

// Attempts returns the number of completed push cycles.
func (h *HeartbeatService) Attempts() uint64 {
	return h.attempts.Load()
}

// logResult never inspects the status code to decide what happened: any
// response counts as pushed.
func (h *HeartbeatService) logResult(result models.PushResult) {
	if result.Failed() {
		h.Logger.Error().
			Err(result.Err).
			Uint64("attempt", result.Attempt).
			Dur("duration", result.Duration).
			Msg("Failed to push heartbeat")
		return
	}

	if !result.Accepted() {
		h.Logger.Warn().
			Int("status_code", result.StatusCode).
			Uint64("attempt", result.Attempt).
			Msg("Push endpoint answered with a non-success status")
	}

	h.Logger.Info().
		Int("status_code", result.StatusCode).
		Uint64("attempt", result.Attempt).
		Dur("duration", result.Duration).
		Msg(constants.PushedLogMessage)
}
