package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Category groups items by the library subtree they belong to.
type Category string

const (
	CategoryMovies  Category = "movies"
	CategoryShows   Category = "shows"
	CategoryMusic   Category = "music"
	CategoryBooks   Category = "books"
	CategoryGallery Category = "gallery"
	CategoryFiles   Category = "files"
)

// Valid reports whether the category is one of the known library subtrees.
func (c Category) Valid() bool {
	switch c {
	case CategoryMovies, CategoryShows, CategoryMusic, CategoryBooks, CategoryGallery, CategoryFiles:
		return true
	}
	return false
}

// ItemState tracks an item through the batch lifecycle.
type ItemState string

const (
	StatePending    ItemState = "pending"
	StateProcessing ItemState = "processing"
	StateComplete   ItemState = "complete"
	StateError      ItemState = "error"
	// StateCancelled is terminal and reachable from processing only. It is
	// distinct from error: no retry, no error-styled logging.
	StateCancelled ItemState = "cancelled"
)

// TrackType distinguishes probed stream descriptors.
type TrackType string

const (
	TrackAudio    TrackType = "audio"
	TrackSubtitle TrackType = "subtitle"
)

// Track describes a single probed audio or subtitle stream.
type Track struct {
	Index    int
	Name     string
	Language string
	Type     TrackType
}

// Preset is an immutable named transcode configuration. A zero BitrateKbps
// means direct copy with no transcode; a zero MaxHeight keeps the original
// resolution.
type Preset struct {
	Label         string
	BitrateKbps   int
	MaxHeight     int
	SizeReduction float64
}

// Transcodes reports whether selecting this preset implies running the
// transcoder at all.
func (p Preset) Transcodes() bool {
	return p.BitrateKbps > 0
}

// TargetKind distinguishes local directories from network shares.
type TargetKind string

const (
	TargetLocal TargetKind = "local"
	TargetShare TargetKind = "network-share"
)

// Target is a candidate destination root for the batch run.
type Target struct {
	Name     string
	Path     string
	Kind     TargetKind
	Username string
	Password string

	// Reachable is the last observed reachability for share targets. It is
	// derived per run, never persisted.
	Reachable bool
}

// IsShare reports whether the target requires the OS share facility.
func (t Target) IsShare() bool {
	return t.Kind == TargetShare
}

// Item is one file moving through the pipeline. Items exist only for the
// lifetime of a single batch run.
type Item struct {
	ID         string
	SourcePath string
	FileSize   int64

	Title   string
	Year    string
	Season  string
	Episode string

	Category        Category
	DurationSeconds float64

	SelectedPreset *Preset
	AudioTracks    []Track
	SubtitleTracks []Track
	AudioTrack     *Track
	SubtitleTrack  *Track

	PosterURL string

	State           ItemState
	ProgressPercent float64
	StatusMessage   string
	IsDuplicate     bool
}

// NewItem builds a pending item for the given source path, capturing its
// current size.
func NewItem(id, sourcePath string) (*Item, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("source %q is a directory", sourcePath)
	}
	return &Item{
		ID:         id,
		SourcePath: sourcePath,
		FileSize:   info.Size(),
		State:      StatePending,
	}, nil
}

// SetSource re-points the item at a new source file (used after a local
// transcode) and refreshes the captured size.
func (i *Item) SetSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat new source: %w", err)
	}
	i.SourcePath = path
	i.FileSize = info.Size()
	return nil
}

// Ext returns the lower-cased source extension including the dot.
func (i *Item) Ext() string {
	return strings.ToLower(filepath.Ext(i.SourcePath))
}

// WillTranscode reports whether the item takes the transcode path. Presets
// apply to video items only; everything else is a direct copy.
func (i *Item) WillTranscode() bool {
	return i.SelectedPreset != nil && i.SelectedPreset.Transcodes() && i.IsVideo()
}

// IsVideo reports whether the source extension is in the video table.
func (i *Item) IsVideo() bool {
	_, ok := videoExtensions[i.Ext()]
	return ok
}

// SeasonNumber returns the parsed season or 0 when unknown.
func (i *Item) SeasonNumber() int { return parsePositive(i.Season) }

// EpisodeNumber returns the parsed episode or 0 when unknown.
func (i *Item) EpisodeNumber() int { return parsePositive(i.Episode) }

func parsePositive(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	n := 0
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mkv": {}, ".avi": {}, ".mov": {}, ".webm": {}, ".m4v": {},
	".ts": {}, ".wmv": {}, ".flv": {}, ".3gp": {}, ".mpg": {}, ".mpeg": {},
}

// VideoExtensions exposes the video extension table for the classifier.
func VideoExtensions() map[string]struct{} {
	out := make(map[string]struct{}, len(videoExtensions))
	for k := range videoExtensions {
		out[k] = struct{}{}
	}
	return out
}
