package textutil

import "strings"

// invalidFileRunes are the characters rejected by common filesystems
// (including the SMB shares this tool writes to).
const invalidFileRunes = `<>:"/\|?*`

// SanitizeFileName replaces filesystem-invalid characters with spaces,
// collapses whitespace, and trims trailing dots and spaces.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(invalidFileRunes, r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	return strings.TrimRight(out, ". ")
}
