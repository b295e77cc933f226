package engine

// Mode is the sync strategy selected from local and remote draw counts.
type Mode string

const (
	// ModeUpToDate means the local store already carries every published draw
	ModeUpToDate Mode = "up_to_date"
	// ModeIncremental means a small trailing range is fetched with low concurrency and no checkpointing
	ModeIncremental Mode = "incremental"
	// ModeBootstrap means a large range is fetched with full concurrency, batching and checkpointing
	ModeBootstrap Mode = "bootstrap"
)

// SelectMode is the pure decision function {localMax, remoteMax, threshold}
// -> mode. A gap above the threshold warrants a checkpointed bootstrap;
// below it, a failed incremental run is cheap to restart from scratch.
func SelectMode(localMax, remoteMax, threshold int) Mode {
	gap := remoteMax - localMax

	switch {
	case gap <= 0:
		return ModeUpToDate
	case gap > threshold:
		return ModeBootstrap
	default:
		return ModeIncremental
	}
}
