//go:build !linux

package main

import (
	"fmt"

	"github.com/genricoloni/mediapanel/internal/config"
	"github.com/genricoloni/mediapanel/internal/domain"
	"go.uber.org/zap"
)

func openHardwareDisplay(*zap.Logger, *config.Config) (domain.Display, error) {
	return nil, fmt.Errorf("framebuffer output requires linux, use --demo")
}

func openGPIOSource(*zap.Logger, int) (domain.Source, error) {
	return nil, fmt.Errorf("gpio input requires linux")
}

func openBacklight(*zap.Logger) (domain.Backlight, error) {
	return nil, fmt.Errorf("backlight control requires linux")
}
