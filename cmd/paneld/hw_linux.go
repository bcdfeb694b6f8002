//go:build linux

package main

import (
	"github.com/genricoloni/mediapanel/internal/backlight"
	"github.com/genricoloni/mediapanel/internal/config"
	"github.com/genricoloni/mediapanel/internal/display"
	"github.com/genricoloni/mediapanel/internal/domain"
	"github.com/genricoloni/mediapanel/internal/input"
	"go.uber.org/zap"
)

func openHardwareDisplay(logger *zap.Logger, cfg *config.Config) (domain.Display, error) {
	return display.OpenFramebuffer(logger, fbDevice, cfg.DisplayWidth, cfg.DisplayHeight)
}

func openGPIOSource(logger *zap.Logger, pin int) (domain.Source, error) {
	return input.NewGPIOSource(logger, pin), nil
}

// openBacklight prefers logind, which works unprivileged inside a seat
// session, and falls back to writing sysfs directly.
func openBacklight(logger *zap.Logger) (domain.Backlight, error) {
	device, err := backlight.FindDevice()
	if err != nil {
		return nil, err
	}
	if client, err := backlight.NewStdDBusClient(); err == nil {
		if bl, err := backlight.NewLogind(logger, client, device); err == nil {
			return bl, nil
		}
		client.Close()
	}
	return backlight.NewSysfs(logger, device)
}
