package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nomadtool/internal/fileutil"
	"nomadtool/internal/media"
)

// localPosterNames are artwork files commonly dropped alongside media.
var localPosterNames = []string{
	"poster.jpg", "poster.jpeg", "poster.png",
	"folder.jpg", "folder.png",
	"cover.jpg", "cover.png",
}

// PosterFetcher places poster artwork at planner-computed destinations.
// Local artwork beside the source wins over a provider download, and an
// existing destination poster is never overwritten.
type PosterFetcher struct {
	httpClient *http.Client
}

// NewPosterFetcher creates a PosterFetcher. A nil client gets a default
// with a short timeout.
func NewPosterFetcher(client *http.Client) *PosterFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &PosterFetcher{httpClient: client}
}

// Place writes poster artwork for item at posterBase (a destination path
// without extension). It returns the final poster path, or "" when no
// artwork source was available.
func (f *PosterFetcher) Place(ctx context.Context, item *media.Item, posterBase string) (string, error) {
	if posterBase == "" {
		return "", nil
	}

	if src := findLocalPoster(item.SourcePath); src != "" {
		dest := posterBase + strings.ToLower(filepath.Ext(src))
		exists, err := fileutil.Exists(dest)
		if err != nil {
			return "", err
		}
		if exists {
			return dest, nil
		}
		if err := fileutil.CopyFile(src, dest); err != nil {
			return "", fmt.Errorf("copy local poster: %w", err)
		}
		return dest, nil
	}

	if item.PosterURL == "" {
		return "", nil
	}
	dest := posterBase + posterExt(item.PosterURL)
	exists, err := fileutil.Exists(dest)
	if err != nil {
		return "", err
	}
	if exists {
		return dest, nil
	}
	if err := f.download(ctx, item.PosterURL, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (f *PosterFetcher) download(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build poster request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch poster: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("poster fetch returned %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return fmt.Errorf("write poster: %w", err)
	}
	return out.Close()
}

// findLocalPoster returns the first artwork file found beside sourcePath:
// the common poster/folder/cover names, then an image sharing the video's
// base name.
func findLocalPoster(sourcePath string) string {
	if sourcePath == "" {
		return ""
	}
	dir := filepath.Dir(sourcePath)
	for _, name := range localPosterNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	for _, ext := range []string{".jpg", ".png"} {
		candidate := filepath.Join(dir, base+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// posterExt derives the artwork extension from a provider URL, defaulting
// to .jpg for unrecognized or missing extensions.
func posterExt(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ".jpg"
	}
	switch ext := strings.ToLower(filepath.Ext(parsed.Path)); ext {
	case ".jpg", ".jpeg", ".png":
		return ext
	default:
		return ".jpg"
	}
}
