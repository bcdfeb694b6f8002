package domain

import (
	"context"
	"image"
)

// Querier defines the interface for talking to the media player's
// JSON-RPC endpoint. Implementations should handle transport details
// (TCP framing, reconnects) and leave interpretation to callers.
type Querier interface {
	// Ping verifies the player is reachable and responding
	Ping(ctx context.Context) error

	// ActivePlayer reports what kind of content is currently playing
	ActivePlayer(ctx context.Context) (PlayerKind, error)

	// InfoLabels fetches the given label keys in a single call.
	// Keys the player does not know come back as empty strings.
	InfoLabels(ctx context.Context, keys []string) (map[string]string, error)

	// ArtworkURL turns a player-internal artwork path (e.g. an
	// image:// VFS path) into a fetchable HTTP URL
	ArtworkURL(ctx context.Context, path string) (string, error)

	// Close tears down the connection
	Close() error
}

// Fetcher defines the interface for retrieving cover art bytes
type Fetcher interface {
	// Fetch downloads image data from a URL.
	// Failure is distinguishable from "no artwork configured": callers
	// pass only non-empty URLs and any error means the fetch failed.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Display defines the interface for presenting a rendered frame.
// Implementations must tolerate being handed the same canvas every
// tick; partial-update optimization happens upstream of Present.
type Display interface {
	// Size returns the panel dimensions in pixels
	Size() (width, height int)

	// Present pushes the frame to the device
	Present(frame image.Image) error

	// Close releases the device
	Close() error
}

// Backlight defines the interface for panel power/brightness side
// calls, independent of rendering.
type Backlight interface {
	// Power switches the backlight on or off
	Power(on bool) error

	// SetBrightness sets the backlight level as a percentage
	SetBrightness(percent int) error
}

// Source defines the interface for touch/keypress delivery.
// Implementations must only produce events on the channel; they never
// touch configuration or displays directly, so a render in progress
// cannot be torn by an interrupt.
type Source interface {
	// Start begins watching for presses until the context is done
	Start(ctx context.Context) error

	// Events returns the press notification channel
	Events() <-chan PressEvent

	// Stop releases any underlying device
	Stop() error
}
