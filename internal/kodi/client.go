// Package kodi speaks Kodi's JSON-RPC protocol over its raw TCP
// interface. The client redials lazily, so a player restart costs one
// failed call instead of a dead daemon.
package kodi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/genricoloni/mediapanel/internal/domain"
	"go.uber.org/zap"
)

const dialTimeout = 5 * time.Second

// Client is a reconnecting JSON-RPC client for one Kodi instance.
type Client struct {
	logger  *zap.Logger
	addr    string
	baseURL string

	mu  sync.Mutex
	cli *jrpc2.Client
}

// NewClient creates a client for the player at addr (host:port of the
// TCP JSON-RPC service). baseURL is the player's web server, used to
// turn artwork VFS paths into downloadable URLs.
func NewClient(logger *zap.Logger, addr, baseURL string) *Client {
	return &Client{
		logger:  logger,
		addr:    addr,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// client returns the live connection, dialing if necessary.
func (c *Client) client(ctx context.Context) (*jrpc2.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cli != nil {
		return c.cli, nil
	}

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", c.addr, err)
	}
	c.logger.Info("Connected to player", zap.String("addr", c.addr))

	// Kodi's TCP service streams bare JSON values with no framing.
	c.cli = jrpc2.NewClient(channel.RawJSON(conn, conn), &jrpc2.ClientOptions{
		Logger: func(text string) { c.logger.Debug(text) },
	})
	return c.cli, nil
}

// drop discards a connection after a failed call so the next call
// redials from scratch.
func (c *Client) drop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cli != nil {
		_ = c.cli.Close()
		c.cli = nil
	}
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	cli, err := c.client(ctx)
	if err != nil {
		return err
	}
	if err := cli.CallResult(ctx, method, params, result); err != nil {
		// RPC-level errors (unknown method, bad params) leave the
		// connection usable; anything else is a transport problem.
		var rpcErr *jrpc2.Error
		if !errors.As(err, &rpcErr) {
			c.drop()
		}
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// Ping verifies the player answers JSON-RPC at all.
func (c *Client) Ping(ctx context.Context) error {
	var result string
	if err := c.call(ctx, "JSONRPC.Ping", nil, &result); err != nil {
		return err
	}
	if result != "pong" {
		return fmt.Errorf("unexpected ping reply %q", result)
	}
	return nil
}

type activePlayer struct {
	PlayerID int    `json:"playerid"`
	Type     string `json:"type"`
}

// ActivePlayer classifies the current playback.
func (c *Client) ActivePlayer(ctx context.Context) (domain.PlayerKind, error) {
	var players []activePlayer
	if err := c.call(ctx, "Player.GetActivePlayers", nil, &players); err != nil {
		return domain.KindNone, err
	}
	if len(players) == 0 {
		return domain.KindNone, nil
	}
	switch players[0].Type {
	case "audio":
		return domain.KindAudio, nil
	case "video":
		return domain.KindVideo, nil
	case "picture":
		return domain.KindSlideshow, nil
	default:
		c.logger.Warn("Unknown player type", zap.String("type", players[0].Type))
		return domain.KindNone, nil
	}
}

type infoLabelsParams struct {
	Labels []string `json:"labels"`
}

// InfoLabels fetches the requested labels in one round trip. Labels
// the player does not recognize come back empty.
func (c *Client) InfoLabels(ctx context.Context, keys []string) (map[string]string, error) {
	var result map[string]string
	if err := c.call(ctx, "XBMC.GetInfoLabels", infoLabelsParams{Labels: keys}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

type prepareDownloadParams struct {
	Path string `json:"path"`
}

type prepareDownloadResult struct {
	Details struct {
		Path string `json:"path"`
	} `json:"details"`
	Protocol string `json:"protocol"`
}

// ArtworkURL resolves a player-internal artwork path into an HTTP URL
// on the player's web server. Plain HTTP paths pass through untouched.
func (c *Client) ArtworkURL(ctx context.Context, path string) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}
	var result prepareDownloadResult
	if err := c.call(ctx, "Files.PrepareDownload", prepareDownloadParams{Path: path}, &result); err != nil {
		return "", err
	}
	if result.Details.Path == "" {
		return "", fmt.Errorf("no download path for %q", path)
	}
	return c.baseURL + "/" + result.Details.Path, nil
}

// Close tears down the connection if one is open.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cli == nil {
		return nil
	}
	err := c.cli.Close()
	c.cli = nil
	return err
}
