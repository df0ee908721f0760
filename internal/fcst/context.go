package fcst

import "time"

// RunContext is the immutable per-invocation record built from CLI arguments.
type RunContext struct {
	// ConfigFile is the experiment configuration path.
	ConfigFile string
	// Cycle is the forecast initialization timestamp.
	Cycle time.Time
	// KeyPath locates the driver's block inside the experiment config.
	KeyPath []string
	// Member is the 3-character ensemble member identifier.
	Member string
}

// State names a position in the run-orchestration sequence.
type State string

const (
	StateInit               State = "INIT"
	StateEnvPrepared        State = "ENV_PREPARED"
	StateDriverInvoked      State = "DRIVER_INVOKED"
	StateCompletionVerified State = "COMPLETION_VERIFIED"
	StateOutputsPublished   State = "OUTPUTS_PUBLISHED"
	StateDone               State = "DONE"
	StateFailed             State = "FAILED"
)
