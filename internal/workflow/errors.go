package workflow

import "errors"

// Failure taxonomy. Every failure a phase can produce funnels into one of
// these sentinels; the controller decides the next phase from the kind alone.
var (
	// ErrGenerationFailed marks a transient generation-capability failure
	// (network, quota, timeout). Retryable within a retry loop.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrEmptyOutput marks a generation that returned no content.
	// The unit does not write; retryable within a retry loop.
	ErrEmptyOutput = errors.New("empty output")

	// ErrMalformedOutput marks output that failed its validation gate.
	// Retryable within a retry loop.
	ErrMalformedOutput = errors.New("malformed output")

	// ErrLoopExhausted marks a retry loop that ran out of iterations.
	// Terminal for the phase; the human chooses retry or abort.
	ErrLoopExhausted = errors.New("retry loop exhausted")

	// ErrToolFailure marks a codebase-read or file-write error. Surfaced
	// immediately; never retried by the core.
	ErrToolFailure = errors.New("tool failure")

	// ErrRunAborted is returned by Run when the human aborts. It is the
	// only way a run terminates without completing.
	ErrRunAborted = errors.New("run aborted")
)

// FailureKind classifies an error against the taxonomy.
type FailureKind string

const (
	KindGenerationFailed FailureKind = "generation_failed"
	KindEmptyOutput      FailureKind = "empty_output"
	KindMalformedOutput  FailureKind = "malformed_output"
	KindLoopExhausted    FailureKind = "loop_exhausted"
	KindToolFailure      FailureKind = "tool_failure"
	KindUnknown          FailureKind = "unknown"
)

// KindOf returns the taxonomy kind wrapped anywhere in err's chain.
func KindOf(err error) FailureKind {
	switch {
	case errors.Is(err, ErrGenerationFailed):
		return KindGenerationFailed
	case errors.Is(err, ErrEmptyOutput):
		return KindEmptyOutput
	case errors.Is(err, ErrMalformedOutput):
		return KindMalformedOutput
	case errors.Is(err, ErrLoopExhausted):
		return KindLoopExhausted
	case errors.Is(err, ErrToolFailure):
		return KindToolFailure
	default:
		return KindUnknown
	}
}

// Retryable reports whether the failure may be consumed by a retry-loop
// iteration rather than surfaced.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindGenerationFailed, KindEmptyOutput, KindMalformedOutput:
		return true
	default:
		return false
	}
}
