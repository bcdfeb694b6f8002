// Package backlight controls the panel backlight, either through
// logind's SetBrightness D-Bus call (no root needed when running in
// the seat session) or by writing the sysfs backlight class directly.
package backlight

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

// DBusClient defines the D-Bus operations the logind controller needs.
// This abstraction allows tests to run without a system bus.
type DBusClient interface {
	// Close closes the D-Bus connection
	Close() error

	// SetBrightness asks logind to set an absolute brightness value on
	// a backlight device for the current session
	SetBrightness(subsystem, device string, value uint32) error
}

// StdDBusClient is the real implementation using godbus
type StdDBusClient struct {
	conn *dbus.Conn
}

// NewStdDBusClient creates a D-Bus client connected to the system bus
func NewStdDBusClient() (*StdDBusClient, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}
	return &StdDBusClient{conn: conn}, nil
}

// Close closes the D-Bus connection
func (c *StdDBusClient) Close() error {
	return c.conn.Close()
}

// SetBrightness calls org.freedesktop.login1.Session.SetBrightness on
// the caller's own session.
func (c *StdDBusClient) SetBrightness(subsystem, device string, value uint32) error {
	obj := c.conn.Object("org.freedesktop.login1",
		dbus.ObjectPath("/org/freedesktop/login1/session/auto"))
	return obj.Call("org.freedesktop.login1.Session.SetBrightness", 0,
		subsystem, device, value).Err
}

// Logind drives a backlight device through logind. Brightness
// percentages are mapped against the device's max_brightness.
type Logind struct {
	logger *zap.Logger
	client DBusClient
	device string
	max    uint32
}

// NewLogind creates a logind-backed backlight for the named device
// under /sys/class/backlight.
func NewLogind(logger *zap.Logger, client DBusClient, device string) (*Logind, error) {
	max, err := readBrightnessMax(device)
	if err != nil {
		return nil, err
	}
	return &Logind{logger: logger, client: client, device: device, max: max}, nil
}

// Power switches the backlight fully off or restores full brightness.
func (l *Logind) Power(on bool) error {
	if on {
		return l.SetBrightness(100)
	}
	return l.set(0)
}

// SetBrightness sets the backlight to the given percentage.
func (l *Logind) SetBrightness(percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return l.set(uint32(uint64(l.max) * uint64(percent) / 100))
}

func (l *Logind) set(value uint32) error {
	l.logger.Debug("Setting backlight",
		zap.String("device", l.device),
		zap.Uint32("value", value))
	if err := l.client.SetBrightness("backlight", l.device, value); err != nil {
		return fmt.Errorf("failed to set brightness on %s: %w", l.device, err)
	}
	return nil
}

func readBrightnessMax(device string) (uint32, error) {
	path := filepath.Join("/sys/class/backlight", device, "max_brightness")
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	max, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil || max == 0 {
		return 0, fmt.Errorf("bad max_brightness for %s: %q", device, strings.TrimSpace(string(data)))
	}
	return uint32(max), nil
}

// FindDevice returns the first device under /sys/class/backlight, or
// an error when the host has none.
func FindDevice() (string, error) {
	entries, err := os.ReadDir("/sys/class/backlight")
	if err != nil {
		return "", fmt.Errorf("failed to list backlight devices: %w", err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no backlight devices present")
	}
	return entries[0].Name(), nil
}

// Noop satisfies the backlight interface when control is disabled.
type Noop struct{}

func (Noop) Power(bool) error        { return nil }
func (Noop) SetBrightness(int) error { return nil }
