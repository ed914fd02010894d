package transfer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nomadtool/internal/media"
	"nomadtool/internal/transfer"
)

func TestEstimateItemBytesTranscode(t *testing.T) {
	item := &media.Item{
		FileSize:        5_000_000_000,
		SourcePath:      "/drop/movie.mkv",
		DurationSeconds: 3600,
		SelectedPreset:  &media.Preset{Label: "1080p", BitrateKbps: 4000, MaxHeight: 1080},
	}
	estimated := float64(4000) * 1024 * 3600 / 8 * 1.1
	want := int64(estimated)
	if got := transfer.EstimateItemBytes(item); got != want {
		t.Fatalf("unexpected estimate: got %d want %d", got, want)
	}
}

func TestEstimateItemBytesDirectCopy(t *testing.T) {
	item := &media.Item{FileSize: 1234, SourcePath: "/drop/file.pdf"}
	if got := transfer.EstimateItemBytes(item); got != 1234 {
		t.Fatalf("unexpected estimate: %d", got)
	}
}

func TestEstimateBatchBytesSkipsSettledItems(t *testing.T) {
	items := []*media.Item{
		{FileSize: 100, SourcePath: "/drop/a.pdf"},
		{FileSize: 200, SourcePath: "/drop/b.pdf", IsDuplicate: true},
		{FileSize: 400, SourcePath: "/drop/c.pdf", State: media.StateError},
		{FileSize: 800, SourcePath: "/drop/d.pdf"},
	}
	if got := transfer.EstimateBatchBytes(items); got != 900 {
		t.Fatalf("unexpected batch estimate: %d", got)
	}
}

func usageTable(table map[string][2]uint64) transfer.UsageFunc {
	return func(path string) (uint64, uint64, error) {
		entry, ok := table[path]
		if !ok {
			return 0, 0, errors.New("unknown volume")
		}
		return entry[0], entry[1], nil
	}
}

func TestChooseKeepsPrimaryWithEnoughSpace(t *testing.T) {
	targets := []media.Target{
		{Name: "share", Path: "/mnt/share", Kind: media.TargetShare},
		{Name: "local", Path: "/mnt/local", Kind: media.TargetLocal},
	}
	planner := transfer.NewSpacePlanner(usageTable(map[string][2]uint64{
		"/mnt/share": {50, 100},
		"/mnt/local": {90, 100},
	}), 10, nil)

	chosen, failover := planner.Choose(targets, 10)
	if failover || chosen.Name != "share" {
		t.Fatalf("expected primary kept, got %q failover=%v", chosen.Name, failover)
	}
}

func TestChooseFailsOverWhenPrimaryLowOnSpace(t *testing.T) {
	targets := []media.Target{
		{Name: "share", Path: "/mnt/share", Kind: media.TargetShare},
		{Name: "other-share", Path: "/mnt/other", Kind: media.TargetShare},
		{Name: "local", Path: "/mnt/local", Kind: media.TargetLocal},
	}
	planner := transfer.NewSpacePlanner(usageTable(map[string][2]uint64{
		"/mnt/share": {5, 100},
		"/mnt/other": {100, 100},
		"/mnt/local": {60, 100},
	}), 10, nil)

	chosen, failover := planner.Choose(targets, 50)
	if !failover {
		t.Fatal("expected failover")
	}
	if chosen.Name != "local" {
		t.Fatalf("expected local alternative chosen over share, got %q", chosen.Name)
	}
}

func TestChooseKeepsPrimaryWhenNoAlternativeFits(t *testing.T) {
	targets := []media.Target{
		{Name: "share", Path: "/mnt/share", Kind: media.TargetShare},
		{Name: "local", Path: "/mnt/local", Kind: media.TargetLocal},
	}
	planner := transfer.NewSpacePlanner(usageTable(map[string][2]uint64{
		"/mnt/share": {5, 100},
		"/mnt/local": {20, 100},
	}), 10, nil)

	chosen, failover := planner.Choose(targets, 50)
	if failover || chosen.Name != "share" {
		t.Fatalf("expected primary kept, got %q failover=%v", chosen.Name, failover)
	}
}

func newSourceItem(t *testing.T, size int) (*media.Item, string) {
	t.Helper()
	dir := t.TempDir()
	source := filepath.Join(dir, "movie.mkv")
	body := strings.Repeat("x", size)
	if err := os.WriteFile(source, []byte(body), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	item, err := media.NewItem("c1", source)
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	return item, body
}

func TestCopyTransfersContentAndReportsProgress(t *testing.T) {
	item, body := newSourceItem(t, 4096)
	destRoot := t.TempDir()
	dest := filepath.Join(destRoot, "movies", "Movie (2020)", "Movie (2020).mkv")

	copier := transfer.NewCopier(nil, transfer.WithBufferSize(1024))
	target := media.Target{Name: "local", Path: destRoot, Kind: media.TargetLocal}

	var events []media.ProgressEvent
	err := copier.Copy(context.Background(), item, target, dest, func(event media.ProgressEvent) {
		events = append(events, event)
	})
	if err != nil {
		t.Fatalf("Copy returned error: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != body {
		t.Fatal("destination content mismatch")
	}
	if len(events) == 0 {
		t.Fatal("expected progress events")
	}
	final := events[len(events)-1]
	if final.Percent != 100 {
		t.Fatalf("expected final percent 100, got %v", final.Percent)
	}
	if !strings.Contains(final.Message, "Transferring") {
		t.Fatalf("unexpected progress message: %q", final.Message)
	}
	if _, err := os.Stat(item.SourcePath); err != nil {
		t.Fatalf("source should survive without delete_source: %v", err)
	}
}

func TestCopyDeletesSourceAfterVerifiedTransfer(t *testing.T) {
	item, _ := newSourceItem(t, 512)
	destRoot := t.TempDir()
	dest := filepath.Join(destRoot, "files", "movie.mkv")

	copier := transfer.NewCopier(nil, transfer.WithDeleteSource(true))
	target := media.Target{Name: "local", Path: destRoot, Kind: media.TargetLocal}

	if err := copier.Copy(context.Background(), item, target, dest, nil); err != nil {
		t.Fatalf("Copy returned error: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if _, err := os.Stat(item.SourcePath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected source deleted, stat err: %v", err)
	}
}

func TestCopyCancellationRemovesPartialDestination(t *testing.T) {
	item, _ := newSourceItem(t, 64*1024)
	destRoot := t.TempDir()
	dest := filepath.Join(destRoot, "movie.mkv")

	ctx, cancel := context.WithCancel(context.Background())
	copier := transfer.NewCopier(nil, transfer.WithBufferSize(1024))
	target := media.Target{Name: "local", Path: destRoot, Kind: media.TargetLocal}

	err := copier.Copy(ctx, item, target, dest, func(media.ProgressEvent) {
		cancel()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, statErr := os.Stat(dest); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected partial destination removed, stat err: %v", statErr)
	}
}
