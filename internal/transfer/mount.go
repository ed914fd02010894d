package transfer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"nomadtool/internal/media"
)

// mountConnector drives the platform mount helper for CIFS shares. The
// share path doubles as the mount point, matching how the targets are
// configured.
type mountConnector struct {
	binary string
}

func newMountConnector() *mountConnector {
	return &mountConnector{binary: "mount"}
}

func (c *mountConnector) Connect(ctx context.Context, target media.Target) error {
	args := []string{"-t", "cifs", sharePath(target.Path), target.Path}
	if target.Username != "" {
		args = append(args, "-o", fmt.Sprintf("username=%s,password=%s", target.Username, target.Password))
	}
	out, err := exec.CommandContext(ctx, c.binary, args...).CombinedOutput() //nolint:gosec
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("mount %s: %s", target.Path, msg)
	}
	return nil
}

func (c *mountConnector) Disconnect(ctx context.Context, target media.Target) error {
	out, err := exec.CommandContext(ctx, "umount", target.Path).CombinedOutput() //nolint:gosec
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("umount %s: %s", target.Path, msg)
	}
	return nil
}

// sharePath normalizes a configured share path to the //host/share form
// the mount helper expects.
func sharePath(path string) string {
	return "//" + strings.TrimLeft(strings.ReplaceAll(path, "\\", "/"), "/")
}
