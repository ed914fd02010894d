package classifier

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"nomadtool/internal/media"
	"nomadtool/internal/textutil"
)

// Classification is the result of inspecting a single path.
type Classification struct {
	Category media.Category
	Title    string
	Year     string
	Season   int
	Episode  int
}

// HasEpisode reports whether a season/episode token was recognized.
func (c Classification) HasEpisode() bool {
	return c.Season > 0 && c.Episode > 0
}

var (
	seasonEpisodePattern = regexp.MustCompile(`(?i)\bS(\d{1,3})\s*[.\-_\s]*E(\d{1,3})\b`)
	crossPattern         = regexp.MustCompile(`(?i)\b(\d{1,3})x(\d{1,3})\b`)
	wordyPattern         = regexp.MustCompile(`(?i)\bseason\s*(\d{1,3})\s*[.\-_\s]*episode\s*(\d{1,3})\b`)
	bracketPattern       = regexp.MustCompile(`[\[(](\d{1,2})\.(\d{1,2})[\])]`)
	barePattern          = regexp.MustCompile(`\b(\d{1,2})(\d{2})\b`)
	yearPattern          = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

var musicExtensions = map[string]struct{}{
	".mp3": {}, ".flac": {}, ".wav": {}, ".m4a": {},
}

var bookExtensions = map[string]struct{}{
	".pdf": {}, ".epub": {}, ".mobi": {}, ".cbz": {}, ".cbr": {},
}

var galleryExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".bmp": {},
}

var titleCaser = cases.Title(language.Und)

// Classify inspects the path and returns category, best-effort title, year,
// and season/episode numbers. Season and Episode are 0 when unknown.
func Classify(path string) Classification {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	result := Classification{Category: categoryForExt(ext)}

	season, episode, matchStart := findSeasonEpisode(stem)
	if season > 0 && episode > 0 {
		result.Season = season
		result.Episode = episode
		if result.Category == media.CategoryMovies {
			result.Category = media.CategoryShows
		}
		stem = stem[:matchStart]
	}

	title, year := splitTitleYear(stem)
	result.Title = finishTitle(title, result.Category)
	result.Year = year
	return result
}

func categoryForExt(ext string) media.Category {
	if _, ok := media.VideoExtensions()[ext]; ok {
		return media.CategoryMovies
	}
	if _, ok := musicExtensions[ext]; ok {
		return media.CategoryMusic
	}
	if _, ok := bookExtensions[ext]; ok {
		return media.CategoryBooks
	}
	if _, ok := galleryExtensions[ext]; ok {
		return media.CategoryGallery
	}
	return media.CategoryFiles
}

// findSeasonEpisode tries the token forms in order of confidence and returns
// the parsed numbers plus the byte offset where the match begins.
func findSeasonEpisode(stem string) (season, episode, start int) {
	for _, pattern := range []*regexp.Regexp{seasonEpisodePattern, crossPattern, wordyPattern, bracketPattern} {
		if loc := pattern.FindStringSubmatchIndex(stem); loc != nil {
			s := atoiOrZero(stem[loc[2]:loc[3]])
			e := atoiOrZero(stem[loc[4]:loc[5]])
			if s > 0 && e > 0 {
				return s, e, loc[0]
			}
		}
	}
	// Bare SSEE forms like "101" or "1412" are common in scene releases but
	// risky; only accept within bounds and never a token that reads as a year.
	for _, loc := range barePattern.FindAllStringSubmatchIndex(stem, -1) {
		token := stem[loc[0]:loc[1]]
		if yearPattern.MatchString(token) {
			continue
		}
		s := atoiOrZero(stem[loc[2]:loc[3]])
		e := atoiOrZero(stem[loc[4]:loc[5]])
		if s > 0 && s < 50 && e > 0 && e < 100 {
			return s, e, loc[0]
		}
	}
	return 0, 0, 0
}

// splitTitleYear extracts a year token from the raw stem (before bracket
// stripping, so "Name (2020)" keeps its year) and cleans the text before it.
func splitTitleYear(stem string) (title, year string) {
	if loc := yearPattern.FindStringIndex(stem); loc != nil {
		year = stem[loc[0]:loc[1]]
		if before := textutil.CleanTitle(stem[:loc[0]]); before != "" {
			return before, year
		}
		// Year-led names: the text after the year carries the title, or the
		// year itself is the title ("2012.1080p.mkv").
		if after := textutil.CleanTitle(stem[loc[1]:]); after != "" {
			return after, year
		}
		return year, year
	}
	return textutil.CleanTitle(stem), ""
}

// finishTitle applies display casing for library categories. Scene releases
// are frequently all lower case; leave mixed-case names untouched.
func finishTitle(title string, category media.Category) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	if category != media.CategoryMovies && category != media.CategoryShows {
		return title
	}
	if title == strings.ToLower(title) {
		return titleCaser.String(title)
	}
	return title
}

func atoiOrZero(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
