// Package encoder drives the external transcoder binary: a one-shot
// hardware capability probe, per-file audio/subtitle track scanning, and
// the transcode run itself with text progress parsing, a wall-clock
// ceiling, and cooperative cancellation. The binary is ffmpeg-shaped and
// talks only through exit codes and captured output lines.
package encoder
