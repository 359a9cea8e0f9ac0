package domain

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable marks a transient storage failure that survived the
// retry budget. Callers should treat it as retryable (HTTP 503).
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrPartialMergeAborted marks a merged (all-types) query aborted because one
// of the source fetches failed. The feed never returns a partial merge.
var ErrPartialMergeAborted = errors.New("merged query aborted")

// PartialMergeError reports which source sank a merged query. It matches
// ErrPartialMergeAborted via errors.Is and unwraps to the source error, so
// transient classification survives the wrapping.
type PartialMergeError struct {
	Source ActivityType
	Err    error
}

func (e *PartialMergeError) Error() string {
	return fmt.Sprintf("merged query aborted: source %s: %v", e.Source, e.Err)
}

func (e *PartialMergeError) Unwrap() error { return e.Err }

func (e *PartialMergeError) Is(target error) bool {
	return target == ErrPartialMergeAborted
}
