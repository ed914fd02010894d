package encoder

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"nomadtool/internal/media"
	"nomadtool/internal/services"
)

var (
	streamPattern   = regexp.MustCompile(`Stream #\d+:(\d+)(?:\(([A-Za-z]{2,3})\))?.*?: (Audio|Subtitle|Video): (\w+)`)
	durationPattern = regexp.MustCompile(`Duration: (\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)
	titlePattern    = regexp.MustCompile(`^\s*title\s*:\s*(.+)$`)
)

// Scan probes the item's source file and populates its duration and track
// lists. The first audio track is selected as the default.
func (c *Client) Scan(ctx context.Context, item *media.Item) error {
	var (
		audio     []media.Track
		subtitles []media.Track
		duration  float64
		lastTrack *media.Track
		sawStream bool
	)

	runErr := c.exec.Run(ctx, c.binary, []string{"-hide_banner", "-i", item.SourcePath}, func(line string) {
		if m := durationPattern.FindStringSubmatch(line); m != nil {
			duration = parseClock(m[1], m[2], m[3])
			return
		}
		if m := streamPattern.FindStringSubmatch(line); m != nil {
			sawStream = true
			index, _ := strconv.Atoi(m[1])
			track := media.Track{
				Index:    index,
				Language: strings.ToLower(m[2]),
				Name:     m[4],
			}
			switch m[3] {
			case "Audio":
				track.Type = media.TrackAudio
				audio = append(audio, track)
				lastTrack = &audio[len(audio)-1]
			case "Subtitle":
				track.Type = media.TrackSubtitle
				subtitles = append(subtitles, track)
				lastTrack = &subtitles[len(subtitles)-1]
			default:
				lastTrack = nil
			}
			return
		}
		if m := titlePattern.FindStringSubmatch(line); m != nil && lastTrack != nil {
			lastTrack.Name = strings.TrimSpace(m[1])
			lastTrack = nil
		}
	})

	// The binary exits non-zero when invoked without an output file; the
	// scan succeeded as long as stream information was produced.
	if runErr != nil && !sawStream && duration == 0 {
		if services.IsCancellation(runErr) || ctx.Err() != nil {
			return context.Canceled
		}
		return services.Wrap(services.ErrExternalTool, "scan", "probe tracks", item.SourcePath, runErr)
	}

	item.DurationSeconds = duration
	item.AudioTracks = audio
	item.SubtitleTracks = subtitles
	if len(audio) > 0 {
		item.AudioTrack = &item.AudioTracks[0]
	}
	return nil
}

func parseClock(hours, minutes, seconds string) float64 {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.ParseFloat(seconds, 64)
	return float64(h)*3600 + float64(m)*60 + s
}
