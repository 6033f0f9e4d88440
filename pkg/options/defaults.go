package options

const (
	// DefaultDataDir is the base directory used when no directory is
	// specified at open time.
	DefaultDataDir = "/var/lib/ignitedb"

	// DefaultCompactionThreshold is the stale-byte watermark that triggers
	// an inline compaction pass (spec section 4.6, mirroring the original
	// implementation's 1 MiB COMPACTION_THRESHOLD).
	DefaultCompactionThreshold uint64 = 1024 * 1024

	// MinCompactionThreshold is the smallest threshold WithCompactionThreshold
	// will accept; below this, compaction would thrash on nearly every write.
	MinCompactionThreshold uint64 = 4 * 1024

	// DefaultEngineKind selects the log-structured engine when none is
	// requested explicitly.
	DefaultEngineKind = EngineKindLog
)

var defaultOptions = Options{
	DataDir:             DefaultDataDir,
	CompactionThreshold: DefaultCompactionThreshold,
	EngineKind:          DefaultEngineKind,
}

// NewDefaultOptions returns a copy of the library's default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
