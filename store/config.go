package store

import "go.uber.org/zap"

// Config configures a Database. The directory layout this store uses
// (one data file, one index file, both inside Path) is fixed by
// spec.md §6; the only thing actually worth naming here is where that
// directory lives and where diagnostics go - same shape as the
// teacher's btree.Config/DefaultConfig pattern, trimmed to the one
// field this store genuinely needs.
type Config struct {
	// Path is the database directory. It is created if missing.
	Path string
	// Logger receives structured diagnostics. A nil Logger is treated as
	// zap.NewNop().
	Logger *zap.Logger
}

// DefaultConfig returns a Config for the database directory at path.
func DefaultConfig(path string) Config {
	return Config{Path: path}
}
