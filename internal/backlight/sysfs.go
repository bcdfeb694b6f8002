package backlight

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

// bl_power values from the kernel's backlight class
const (
	blankUnblank   = "0"
	blankPowerDown = "4"
)

// Sysfs drives a backlight device by writing the sysfs class files
// directly. Needs write access to /sys/class/backlight, so typically
// root or a udev rule.
type Sysfs struct {
	logger *zap.Logger
	dir    string
	max    uint32
}

// NewSysfs creates a sysfs-backed backlight for the named device.
func NewSysfs(logger *zap.Logger, device string) (*Sysfs, error) {
	max, err := readBrightnessMax(device)
	if err != nil {
		return nil, err
	}
	return &Sysfs{
		logger: logger,
		dir:    filepath.Join("/sys/class/backlight", device),
		max:    max,
	}, nil
}

// Power blanks or unblanks the panel via bl_power.
func (s *Sysfs) Power(on bool) error {
	value := blankPowerDown
	if on {
		value = blankUnblank
	}
	path := filepath.Join(s.dir, "bl_power")
	if err := os.WriteFile(path, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// SetBrightness sets the backlight to the given percentage.
func (s *Sysfs) SetBrightness(percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	value := strconv.FormatUint(uint64(s.max)*uint64(percent)/100, 10)
	s.logger.Debug("Setting backlight", zap.String("dir", s.dir), zap.String("value", value))

	path := filepath.Join(s.dir, "brightness")
	if err := os.WriteFile(path, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
