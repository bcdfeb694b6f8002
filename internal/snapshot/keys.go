package snapshot

import "github.com/genricoloni/mediapanel/internal/domain"

// Built-in InfoLabel key sets requested per category on every tick.
// User extensions from the setup file are merged on top.
var (
	audioKeys = []string{
		"MusicPlayer.Title",
		"MusicPlayer.Album",
		"MusicPlayer.Artist",
		"MusicPlayer.Time",
		"MusicPlayer.Duration",
		"MusicPlayer.TrackNumber",
		"MusicPlayer.Property(Role.Composer)",
		"MusicPlayer.Codec",
		"MusicPlayer.BitsPerSample",
		"MusicPlayer.SampleRate",
		"MusicPlayer.Year",
		"MusicPlayer.Genre",
		"MusicPlayer.Cover",
	}

	videoKeys = []string{
		"VideoPlayer.Title",
		"VideoPlayer.TVShowTitle",
		"VideoPlayer.Season",
		"VideoPlayer.Episode",
		"VideoPlayer.Duration",
		"VideoPlayer.Time",
		"VideoPlayer.Genre",
		"VideoPlayer.Year",
		"VideoPlayer.VideoCodec",
		"VideoPlayer.AudioCodec",
		"VideoPlayer.Rating",
		"VideoPlayer.Cover",
	}

	statusKeys = []string{
		"System.Uptime",
		"System.CPUTemperature",
		"System.CpuFrequency",
		"System.Date",
		"System.Time",
		"System.BuildVersion",
		"System.BuildDate",
		"System.FreeSpace",
	}
)

// syntheticKeys are values the builder itself writes into a snapshot
// on top of the polled labels.
var syntheticKeys = []string{
	"summary",
}

// codecNames maps raw codec identifiers reported by the player to the
// short labels shown on screen. Unlisted codecs render as nothing.
var codecNames = map[string]string{
	"ac3":             "DD",
	"eac3":            "DD",
	"dtshd_ma":        "DTS-MA",
	"dca":             "DTS",
	"truehd":          "DD-HD",
	"wmapro":          "WMA",
	"mp3float":        "MP3",
	"flac":            "FLAC",
	"alac":            "ALAC",
	"vorbis":          "OggV",
	"aac":             "AAC",
	"pcm_s16be":       "PCM",
	"mp2":             "MP2",
	"pcm_u8":          "PCM",
	"BXA":             "AirPlay",
	"dsd_lsbf_planar": "DSD",
}

// KeysFor returns the built-in key set for a player kind.
func KeysFor(kind domain.PlayerKind) []string {
	switch kind {
	case domain.KindAudio:
		return audioKeys
	case domain.KindVideo:
		return videoKeys
	default:
		return statusKeys
	}
}

// KnownKeys returns every key a setup file may legitimately name: all
// built-in sets, the synthetic keys, and the user extensions.
func KnownKeys(extra []string) []string {
	out := make([]string, 0, len(audioKeys)+len(videoKeys)+len(statusKeys)+len(syntheticKeys))
	out = append(out, audioKeys...)
	out = append(out, videoKeys...)
	out = append(out, statusKeys...)
	out = append(out, syntheticKeys...)
	return mergeKeys(out, extra)
}

// mergeKeys deduplicates the union of two key lists, order-independent.
func mergeKeys(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, key := range list {
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}
