package planner

import (
	"fmt"
	"path/filepath"
	"strings"

	"nomadtool/internal/fileutil"
	"nomadtool/internal/media"
	"nomadtool/internal/textutil"
)

// Planner computes canonical destination paths inside a library tree.
// Planning is pure path arithmetic; the only I/O it performs is the
// explicit duplicate existence check.
type Planner struct {
	container string
}

// New creates a Planner. container is the extension (without dot) forced
// onto transcoded output files.
func New(container string) *Planner {
	return &Planner{container: strings.TrimPrefix(strings.ToLower(container), ".")}
}

// RelativePath returns the item's canonical path relative to a destination
// root. The same item always yields the same path.
func (p *Planner) RelativePath(item *media.Item) string {
	title := SafeTitle(item.Title)
	ext := p.ext(item)

	switch item.Category {
	case media.CategoryMovies:
		if year := strings.TrimSpace(item.Year); year != "" {
			folder := fmt.Sprintf("%s (%s)", title, year)
			return filepath.Join("movies", folder, folder+ext)
		}
		return filepath.Join("movies", title, title+ext)
	case media.CategoryShows:
		season, episode := item.SeasonNumber(), item.EpisodeNumber()
		if season > 0 && episode > 0 {
			seasonDir := fmt.Sprintf("Season %02d", season)
			file := fmt.Sprintf("%s - S%02dE%02d%s", title, season, episode, ext)
			return filepath.Join("shows", title, seasonDir, file)
		}
		return filepath.Join("shows", title, title+ext)
	default:
		return filepath.Join(string(item.Category), title+ext)
	}
}

// Destination joins the destination root with the item's canonical
// relative path.
func (p *Planner) Destination(item *media.Item, root string) string {
	return filepath.Join(root, p.RelativePath(item))
}

// PosterBase returns the destination poster path without extension, or
// false for categories that carry no artwork. Movie posters share the
// video file's base name; show posters are a "poster" file at season level
// when the season is known, at show level otherwise.
func (p *Planner) PosterBase(item *media.Item, root string) (string, bool) {
	dest := p.Destination(item, root)
	switch item.Category {
	case media.CategoryMovies:
		return strings.TrimSuffix(dest, filepath.Ext(dest)), true
	case media.CategoryShows:
		return filepath.Join(filepath.Dir(dest), "poster"), true
	default:
		return "", false
	}
}

// CheckDuplicate reports whether the item's planned destination already
// exists under root. It is a bare stat: an unreachable share surfaces as
// an error ("unknown"), never as a reconnect attempt.
func (p *Planner) CheckDuplicate(item *media.Item, root string) (bool, error) {
	return fileutil.Exists(p.Destination(item, root))
}

// OutputExt returns the extension (with dot) the item's destination file
// will carry, accounting for the forced transcode container.
func (p *Planner) OutputExt(item *media.Item) string {
	return p.ext(item)
}

func (p *Planner) ext(item *media.Item) string {
	if item.WillTranscode() && p.container != "" {
		return "." + p.container
	}
	ext := item.Ext()
	if ext == "" {
		ext = ".bin"
	}
	return ext
}

// SafeTitle strips release tags and filesystem-invalid characters from a
// title, falling back to "Untitled" when nothing survives.
func SafeTitle(title string) string {
	cleaned := textutil.SanitizeFileName(textutil.CleanTitle(title))
	if cleaned == "" {
		return "Untitled"
	}
	return cleaned
}
