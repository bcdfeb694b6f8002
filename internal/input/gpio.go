//go:build linux

package input

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/genricoloni/mediapanel/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const gpioRoot = "/sys/class/gpio"

// GPIOSource watches a sysfs GPIO pin for falling edges and publishes
// a press event per edge. The pin is exported on Start and left
// exported on Stop; repeated exports are harmless.
type GPIOSource struct {
	logger *zap.Logger
	pin    int
	events chan domain.PressEvent
	value  *os.File
}

// NewGPIOSource creates a source for the given GPIO pin number.
func NewGPIOSource(logger *zap.Logger, pin int) *GPIOSource {
	return &GPIOSource{
		logger: logger,
		pin:    pin,
		events: make(chan domain.PressEvent, 8),
	}
}

// Events returns the press notification channel.
func (g *GPIOSource) Events() <-chan domain.PressEvent { return g.events }

// Start exports the pin, arms falling-edge interrupts and blocks
// polling until the context is done.
func (g *GPIOSource) Start(ctx context.Context) error {
	if err := g.setup(); err != nil {
		return err
	}
	g.logger.Info("GPIO touch input armed", zap.Int("pin", g.pin))

	fd := int(g.value.Fd())
	buf := make([]byte, 8)

	// Consume the initial readable state before waiting for edges.
	g.value.ReadAt(buf, 0)

	for {
		if ctx.Err() != nil {
			return nil
		}
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLPRI | unix.POLLERR}}
		n, err := unix.Poll(fds, 1000)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("failed to poll gpio %d: %w", g.pin, err)
		}
		if n == 0 {
			continue
		}
		// Re-read to rearm the interrupt.
		g.value.ReadAt(buf, 0)

		select {
		case g.events <- domain.PressEvent{At: time.Now()}:
		default:
			g.logger.Debug("Press dropped, queue full")
		}
	}
}

// Stop closes the value file.
func (g *GPIOSource) Stop() error {
	if g.value != nil {
		return g.value.Close()
	}
	return nil
}

func (g *GPIOSource) setup() error {
	pin := strconv.Itoa(g.pin)
	dir := filepath.Join(gpioRoot, "gpio"+pin)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.WriteFile(filepath.Join(gpioRoot, "export"), []byte(pin), 0200); err != nil {
			return fmt.Errorf("failed to export gpio %d: %w", g.pin, err)
		}
		// The attribute files appear asynchronously after export.
		time.Sleep(100 * time.Millisecond)
	}
	if err := os.WriteFile(filepath.Join(dir, "direction"), []byte("in"), 0644); err != nil {
		return fmt.Errorf("failed to set gpio %d direction: %w", g.pin, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "edge"), []byte("falling"), 0644); err != nil {
		return fmt.Errorf("failed to set gpio %d edge: %w", g.pin, err)
	}

	value, err := os.Open(filepath.Join(dir, "value"))
	if err != nil {
		return fmt.Errorf("failed to open gpio %d value: %w", g.pin, err)
	}
	g.value = value
	return nil
}
