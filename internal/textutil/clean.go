package textutil

import (
	"strings"
	"unicode"
)

// releaseTags are low-signal tokens found in scene release names: resolutions,
// codecs, sources, and tracker names. Matched case-insensitively per word.
var releaseTags = map[string]struct{}{
	"480p": {}, "576p": {}, "720p": {}, "1080p": {}, "2160p": {}, "4k": {}, "8k": {},
	"hdr": {}, "hdr10": {}, "hevc": {}, "h265": {}, "x265": {}, "h264": {}, "x264": {}, "avc": {},
	"aac": {}, "ac3": {}, "eac3": {}, "dts": {}, "truehd": {}, "atmos": {},
	"webrip": {}, "webdl": {}, "web-dl": {}, "web": {}, "bluray": {}, "brrip": {}, "bdrip": {},
	"dvdrip": {}, "remux": {}, "hdtv": {}, "camrip": {},
	"yify": {}, "yts": {}, "rarbg": {}, "ettv": {}, "psa": {}, "tgx": {}, "qxr": {}, "vxt": {},
	"proper": {}, "repack": {}, "extended": {}, "uncut": {}, "remastered": {},
	"multi": {}, "subbed": {}, "subs": {}, "dubbed": {},
	"dual-audio": {}, "multi-audio": {},
}

// CleanTitle strips scene release tags and separator noise from a raw title
// fragment. The result has single spaces between words and no trailing dots
// or spaces. CleanTitle is idempotent.
func CleanTitle(value string) string {
	value = stripBracketed(value)
	value = replaceSeparators(value)

	words := strings.Fields(value)
	kept := words[:0]
	for _, word := range words {
		if _, tagged := releaseTags[strings.ToLower(word)]; tagged {
			continue
		}
		kept = append(kept, word)
	}
	out := strings.Join(kept, " ")
	return strings.TrimRight(out, ". ")
}

// stripBracketed removes (...) and [...] segments, including unterminated
// ones that run to the end of the string.
func stripBracketed(value string) string {
	var b strings.Builder
	depth := 0
	for _, r := range value {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func replaceSeparators(value string) string {
	var b strings.Builder
	runes := []rune(value)
	for i, r := range runes {
		switch r {
		case '.', '_':
			b.WriteRune(' ')
		case '-':
			// Keep hyphens inside words ("Half-Blood"), drop separator
			// hyphens ("Title - 1080p").
			if i > 0 && i+1 < len(runes) && isWordRune(runes[i-1]) && isWordRune(runes[i+1]) {
				b.WriteRune(r)
			} else {
				b.WriteRune(' ')
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// NormalizeTitle lowercases, strips punctuation, and collapses whitespace so
// two titles can be compared structurally.
func NormalizeTitle(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
