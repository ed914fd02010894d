package media

import "strings"

// builtinPresets is the fixed catalog of transcode profiles offered to
// callers. Labels are matched case-insensitively.
var builtinPresets = []Preset{
	{Label: "copy", BitrateKbps: 0, MaxHeight: 0, SizeReduction: 0},
	{Label: "1080p", BitrateKbps: 4000, MaxHeight: 1080, SizeReduction: 0.45},
	{Label: "720p", BitrateKbps: 2500, MaxHeight: 720, SizeReduction: 0.60},
	{Label: "480p", BitrateKbps: 1200, MaxHeight: 480, SizeReduction: 0.75},
}

// Presets returns the built-in preset catalog in display order.
func Presets() []Preset {
	out := make([]Preset, len(builtinPresets))
	copy(out, builtinPresets)
	return out
}

// PresetByLabel resolves a preset by its label. The second return value is
// false when no preset carries that label.
func PresetByLabel(label string) (Preset, bool) {
	label = strings.TrimSpace(label)
	for _, preset := range builtinPresets {
		if strings.EqualFold(preset.Label, label) {
			return preset, true
		}
	}
	return Preset{}, false
}
