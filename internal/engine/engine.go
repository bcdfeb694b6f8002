// Package engine drives the panel's polling loop: connect to the
// player, then once per tick drain input, refresh the snapshot, run
// the mode controller, render and present.
package engine

import (
	"context"
	"time"

	"github.com/genricoloni/mediapanel/internal/config"
	"github.com/genricoloni/mediapanel/internal/domain"
	"github.com/genricoloni/mediapanel/internal/mode"
	"github.com/genricoloni/mediapanel/internal/render"
	"github.com/genricoloni/mediapanel/internal/snapshot"
	"go.uber.org/zap"
)

const (
	// connectRetry is how often to re-ping while the player is down
	connectRetry = 5 * time.Second
	// minSleep keeps the loop from spinning when a tick ran long
	minSleep = 400 * time.Millisecond

	connectBanner = "Waiting to connect with Kodi ..."
)

// Engine orchestrates the panel update pipeline.
type Engine struct {
	logger    *zap.Logger
	cfg       *config.Config
	querier   domain.Querier
	builder   *snapshot.Builder
	ctrl      *mode.Controller
	renderer  *render.Renderer
	display   domain.Display
	backlight domain.Backlight
	source    domain.Source

	tick time.Duration
	now  func() time.Time

	connected bool
	screenOn  bool
	screenSet bool
}

// NewEngine creates the orchestration engine. backlight and source may
// be nil when the platform has neither.
func NewEngine(
	logger *zap.Logger,
	cfg *config.Config,
	querier domain.Querier,
	builder *snapshot.Builder,
	ctrl *mode.Controller,
	renderer *render.Renderer,
	display domain.Display,
	backlight domain.Backlight,
	source domain.Source,
) *Engine {
	return &Engine{
		logger:    logger,
		cfg:       cfg,
		querier:   querier,
		builder:   builder,
		ctrl:      ctrl,
		renderer:  renderer,
		display:   display,
		backlight: backlight,
		source:    source,
		tick:      time.Duration(cfg.TickMillis) * time.Millisecond,
		now:       time.Now,
	}
}

// Start launches the polling loop in a goroutine. It returns
// immediately (non-blocking).
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("Engine starting...",
		zap.String("player", e.cfg.RPCAddr),
		zap.Duration("tick", e.tick))

	if e.source != nil {
		go func() {
			if err := e.source.Start(ctx); err != nil {
				e.logger.Error("Input source stopped", zap.Error(err))
			}
		}()
	}

	go e.runLoop(ctx)
	return nil
}

// runLoop alternates between the connect phase and steady-state ticks.
func (e *Engine) runLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			e.logger.Info("Engine loop stopped")
			return
		}

		if !e.connected {
			if !e.awaitPlayer(ctx) {
				return
			}
			continue
		}

		start := e.now()
		e.Tick(ctx)

		remaining := e.tick - e.now().Sub(start)
		if remaining < minSleep {
			remaining = minSleep
		}
		if !sleepCtx(ctx, remaining) {
			e.logger.Info("Engine loop stopped")
			return
		}
	}
}

// awaitPlayer pings until the player answers, showing the connect
// banner meanwhile. Returns false when the context was cancelled.
func (e *Engine) awaitPlayer(ctx context.Context) bool {
	e.showBanner()

	for {
		if err := e.querier.Ping(ctx); err == nil {
			e.logger.Info("Player reachable", zap.String("addr", e.cfg.RPCAddr))
			e.connected = true
			e.ctrl.ForceFull()
			return true
		} else {
			e.logger.Debug("Player not reachable yet", zap.Error(err))
		}
		if !sleepCtx(ctx, connectRetry) {
			return false
		}
	}
}

// Tick runs one complete update: input, snapshot, mode, render,
// present. Exposed for tests; runLoop is the only production caller.
func (e *Engine) Tick(ctx context.Context) {
	e.drainPresses()

	snap := e.builder.Refresh(ctx)
	if snap.Stale {
		e.logger.Warn("Player unreachable, back to connect phase")
		e.connected = false
		e.showBanner()
		return
	}

	decision := e.ctrl.Observe(snap)
	e.applyBacklight(decision.ScreenOn)

	if !decision.Render {
		return
	}

	frame := e.renderer.Render(ctx, decision.Key(), decision.Layout, snap, decision.Full)
	if err := e.display.Present(frame); err != nil {
		e.logger.Error("Failed to present frame", zap.Error(err))
	}
}

// drainPresses feeds every queued press into the controller. Events
// only ever arrive through the channel, so a press can never interrupt
// a render in progress.
func (e *Engine) drainPresses() {
	if e.source == nil {
		return
	}
	for {
		select {
		case ev, ok := <-e.source.Events():
			if !ok {
				return
			}
			e.ctrl.Press(ev.At)
		default:
			return
		}
	}
}

func (e *Engine) showBanner() {
	e.applyBacklight(true)
	frame := e.renderer.RenderMessage(connectBanner)
	if err := e.display.Present(frame); err != nil {
		e.logger.Error("Failed to present frame", zap.Error(err))
	}
	e.ctrl.ForceFull()
}

// applyBacklight issues power/brightness calls only on state changes.
func (e *Engine) applyBacklight(on bool) {
	if e.backlight == nil || !e.cfg.UseBacklight {
		return
	}
	if e.screenSet && on == e.screenOn {
		return
	}
	e.screenSet = true
	e.screenOn = on

	if err := e.backlight.Power(on); err != nil {
		e.logger.Error("Backlight power call failed", zap.Error(err))
		return
	}
	if on {
		if err := e.backlight.SetBrightness(e.cfg.BacklightPercent); err != nil {
			e.logger.Error("Backlight brightness call failed", zap.Error(err))
		}
	}
}

// Stop tears down the player connection and blanks the display.
func (e *Engine) Stop(ctx context.Context) error {
	e.logger.Info("Engine stopping...")

	if e.source != nil {
		if err := e.source.Stop(); err != nil {
			e.logger.Warn("Input source close failed", zap.Error(err))
		}
	}
	if err := e.querier.Close(); err != nil {
		e.logger.Warn("Player connection close failed", zap.Error(err))
	}
	return e.display.Close()
}

// sleepCtx waits for d, returning false when ctx was cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
