package transfer

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"nomadtool/internal/logging"
	"nomadtool/internal/media"
	"nomadtool/internal/services"
)

// Connector establishes and releases OS-level share connections. The
// default implementation shells out to the platform mount helper; tests
// substitute fakes.
type Connector interface {
	Connect(ctx context.Context, target media.Target) error
	Disconnect(ctx context.Context, target media.Target) error
}

// ShareManager owns share reachability for a batch run. Connections it
// opens are remembered and released at batch end.
type ShareManager struct {
	connector Connector
	logger    *slog.Logger

	mu     sync.Mutex
	opened []media.Target
}

// NewShareManager creates a manager around the given connector. A nil
// connector gets the platform default.
func NewShareManager(connector Connector, logger *slog.Logger) *ShareManager {
	if connector == nil {
		connector = newMountConnector()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ShareManager{connector: connector, logger: logger}
}

// Reachable probes the target root with a bare stat. It never attempts a
// reconnect; callers that want one use EnsureReachable.
func (m *ShareManager) Reachable(target media.Target) bool {
	info, err := os.Stat(target.Path)
	return err == nil && info.IsDir()
}

// EnsureReachable probes the target and, for shares, attempts one
// reconnect with the stored credentials before re-probing.
func (m *ShareManager) EnsureReachable(ctx context.Context, target media.Target) error {
	if m.Reachable(target) {
		return nil
	}
	if !target.IsShare() {
		return services.Wrap(services.ErrUnreachable, "share", "probe", target.Path, nil)
	}

	err := m.connector.Connect(ctx, target)
	switch {
	case err == nil:
		m.remember(target)
	case strings.Contains(err.Error(), "different credentials"):
		// Idempotent: the share is connected, just not by us.
		m.logger.Debug("share already connected", logging.String("target", target.Name))
	case services.IsCancellation(err):
		return err
	default:
		return services.Wrap(services.ErrUnreachable, "share", "connect", target.Path, err)
	}

	if !m.Reachable(target) {
		return services.Wrap(services.ErrUnreachable, "share", "probe after connect", target.Path, nil)
	}
	return nil
}

// Release disconnects every share this manager connected during the batch.
// Failures are logged, not escalated.
func (m *ShareManager) Release(ctx context.Context) {
	m.mu.Lock()
	opened := m.opened
	m.opened = nil
	m.mu.Unlock()

	for _, target := range opened {
		if err := m.connector.Disconnect(ctx, target); err != nil {
			m.logger.Warn("share disconnect failed",
				logging.String("target", target.Name),
				logging.Error(err))
		}
	}
}

func (m *ShareManager) remember(target media.Target) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, opened := range m.opened {
		if opened.Path == target.Path {
			return
		}
	}
	m.opened = append(m.opened, target)
}
