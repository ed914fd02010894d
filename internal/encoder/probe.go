package encoder

import (
	"context"
	"strings"

	"nomadtool/internal/logging"
)

// hardwareEncoders lists the candidate H.264 encoder identifiers in
// priority order: NVENC, then QuickSync, then VCE.
var hardwareEncoders = []string{"h264_nvenc", "h264_qsv", "h264_amf"}

// SoftwareEncoder is the fallback identifier used when no hardware
// encoder is detected.
const SoftwareEncoder = "libx264"

// DetectEncoder probes the transcoder binary for hardware encoder support.
// The probe runs once; subsequent calls return the cached identifier.
func (c *Client) DetectEncoder(ctx context.Context) string {
	c.probeOnce.Do(func() {
		c.encoderID = c.probeEncoder(ctx)
		c.logger.Info("encoder capability detected", logging.String("encoder", c.encoderID))
	})
	return c.encoderID
}

func (c *Client) probeEncoder(ctx context.Context) string {
	available := make(map[string]bool, len(hardwareEncoders))
	err := c.exec.Run(ctx, c.binary, []string{"-hide_banner", "-encoders"}, func(line string) {
		for _, id := range hardwareEncoders {
			if strings.Contains(line, id) {
				available[id] = true
			}
		}
	})
	if err != nil {
		c.logger.Warn("encoder probe failed, using software encoder", logging.Error(err))
		return SoftwareEncoder
	}
	for _, id := range hardwareEncoders {
		if available[id] {
			return id
		}
	}
	return SoftwareEncoder
}
