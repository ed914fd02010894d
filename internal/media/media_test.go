package media_test

import (
	"os"
	"path/filepath"
	"testing"

	"nomadtool/internal/media"
)

func writeSource(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestNewItemCapturesSize(t *testing.T) {
	path := writeSource(t, "movie.mkv")

	item, err := media.NewItem("item-1", path)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	if item.FileSize != int64(len("payload")) {
		t.Fatalf("FileSize = %d", item.FileSize)
	}
	if item.State != media.StatePending {
		t.Fatalf("State = %q", item.State)
	}
}

func TestNewItemRejectsDirectory(t *testing.T) {
	if _, err := media.NewItem("item-1", t.TempDir()); err == nil {
		t.Fatal("expected error for directory source")
	}
}

func TestWillTranscodeRequiresVideoAndBitrate(t *testing.T) {
	video, err := media.NewItem("v", writeSource(t, "movie.mkv"))
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	if video.WillTranscode() {
		t.Fatal("no preset should mean no transcode")
	}

	preset, ok := media.PresetByLabel("1080p")
	if !ok {
		t.Fatal("1080p preset missing")
	}
	video.SelectedPreset = &preset
	if !video.WillTranscode() {
		t.Fatal("video with bitrate preset should transcode")
	}

	book, err := media.NewItem("b", writeSource(t, "novel.epub"))
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	book.SelectedPreset = &preset
	if book.WillTranscode() {
		t.Fatal("non-video items never transcode")
	}
}

func TestPresetByLabel(t *testing.T) {
	preset, ok := media.PresetByLabel("720P")
	if !ok {
		t.Fatal("expected case-insensitive match")
	}
	if preset.BitrateKbps != 2500 || preset.MaxHeight != 720 {
		t.Fatalf("unexpected preset: %+v", preset)
	}

	copyPreset, ok := media.PresetByLabel("copy")
	if !ok {
		t.Fatal("copy preset missing")
	}
	if copyPreset.Transcodes() {
		t.Fatal("copy preset must not transcode")
	}

	if _, ok := media.PresetByLabel("potato"); ok {
		t.Fatal("unknown label should not resolve")
	}
}

func TestSeasonEpisodeNumbers(t *testing.T) {
	item := media.Item{Season: "3", Episode: "12"}
	if item.SeasonNumber() != 3 || item.EpisodeNumber() != 12 {
		t.Fatalf("got S%dE%d", item.SeasonNumber(), item.EpisodeNumber())
	}
	item.Season = "extras"
	if item.SeasonNumber() != 0 {
		t.Fatalf("non-numeric season should parse as 0, got %d", item.SeasonNumber())
	}
}
