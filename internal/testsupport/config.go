package testsupport

import (
	"path/filepath"
	"testing"

	"cloudproxy/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Store roots, lock and log directories are created before returning.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OriginalStore = filepath.Join(base, "original")
	cfgVal.Paths.RebuiltStore = filepath.Join(base, "rebuilt")
	cfgVal.Paths.LockDir = filepath.Join(base, "locks")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Journal.Path = filepath.Join(base, "journal.db")
	cfgVal.Processing.TimeoutSeconds = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithAdaptationURL points the HTTP transport at url.
func WithAdaptationURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Adaptation.Transport = config.TransportHTTP
		b.cfg.Adaptation.URL = url
	}
}

// WithAdaptationSocket selects the RPC transport on socket.
func WithAdaptationSocket(socket string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Adaptation.Transport = config.TransportRPC
		b.cfg.Adaptation.Socket = socket
	}
}

// WithJournalDisabled turns the cycle journal off.
func WithJournalDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = false
	}
}

// WithTimeout overrides the processing timeout in seconds.
func WithTimeout(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Processing.TimeoutSeconds = seconds
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OriginalStore)
}
