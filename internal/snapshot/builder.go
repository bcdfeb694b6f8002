package snapshot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/genricoloni/mediapanel/internal/domain"
	"go.uber.org/zap"
)

// Builder polls the player and normalizes the answer into the flat
// snapshot consumed by the mode controller and renderer.
type Builder struct {
	logger    *zap.Logger
	querier   domain.Querier
	extraKeys []string
	now       func() time.Time
}

// NewBuilder creates a snapshot builder. extraKeys are user-extension
// labels merged into every query.
func NewBuilder(logger *zap.Logger, querier domain.Querier, extraKeys []string) *Builder {
	return &Builder{
		logger:    logger,
		querier:   querier,
		extraKeys: extraKeys,
		now:       time.Now,
	}
}

// Refresh builds the snapshot for the current tick. A player that
// cannot be reached yields a stale snapshot rather than an error, so
// the render loop can show its disconnected state and keep going.
func (b *Builder) Refresh(ctx context.Context) domain.Snapshot {
	snap := domain.Snapshot{
		Kind:     domain.KindNone,
		Values:   map[string]string{},
		Progress: -1,
		Taken:    b.now(),
	}

	kind, err := b.querier.ActivePlayer(ctx)
	if err != nil {
		b.logger.Warn("Player unreachable, marking snapshot stale", zap.Error(err))
		snap.Stale = true
		return snap
	}
	snap.Kind = kind

	keys := mergeKeys(KeysFor(kind), b.extraKeys)
	values, err := b.querier.InfoLabels(ctx, keys)
	if err != nil {
		b.logger.Warn("InfoLabels query failed, marking snapshot stale", zap.Error(err))
		snap.Stale = true
		return snap
	}

	// Absent keys become empty strings so downstream non-empty checks
	// never need existence tests.
	for _, key := range keys {
		snap.Values[key] = values[key]
	}

	Derive(&snap)
	return snap
}

// Derive computes every synthetic value of a snapshot in place. It is
// deterministic and idempotent: deriving twice on the same raw values
// produces the same result.
func Derive(snap *domain.Snapshot) {
	switch snap.Kind {
	case domain.KindAudio:
		snap.Progress = CalcProgress(snap.Get("MusicPlayer.Time"), snap.Get("MusicPlayer.Duration"))
		snap.Transient = transientGap(snap.Get("MusicPlayer.Time"),
			snap.Get("MusicPlayer.Duration"), snap.Get("MusicPlayer.Cover"))
	case domain.KindVideo:
		snap.Progress = CalcProgress(snap.Get("VideoPlayer.Time"), snap.Get("VideoPlayer.Duration"))
		snap.Transient = transientGap(snap.Get("VideoPlayer.Time"),
			snap.Get("VideoPlayer.Duration"), snap.Get("VideoPlayer.Cover"))
	default:
		snap.Progress = -1
	}
	snap.Values["summary"] = summaryFor(snap.Kind)
}

func summaryFor(kind domain.PlayerKind) string {
	switch kind {
	case domain.KindAudio:
		return "Music playing"
	case domain.KindVideo:
		return "Video playing"
	case domain.KindSlideshow:
		return "Photo viewing"
	default:
		return "Idle"
	}
}

// transientGap recognizes the brief DLNA/UPnP hiccup during track
// changes: a zero time with no duration and no artwork means the
// player momentarily reports nothing worth drawing.
func transientGap(timeStr, duration, cover string) bool {
	return (timeStr == "00:00" || timeStr == "00:00:00") && duration == "" && cover == ""
}

// CalcProgress converts the player's [H:]MM:SS position and duration
// labels into a fraction, or -1 when either is missing or malformed or
// the position runs past the duration.
func CalcProgress(timeStr, durationStr string) float64 {
	cur, ok := parseClock(timeStr)
	if !ok {
		return -1
	}
	total, ok := parseClock(durationStr)
	if !ok {
		return -1
	}
	if total <= 0 || cur > total {
		return -1
	}
	return float64(cur) / float64(total)
}

func parseClock(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}
