package interaction

import (
	"errors"
	"fmt"
)

// Failure taxonomy. Validation and not-found conditions are detected before
// any mutating store call and carry no side effects. Anything else coming out
// of a store call keeps the driver error in its chain.
var (
	ErrValidation      = errors.New("interaction: missing required field")
	ErrActorNotFound   = errors.New("interaction: actor not found")
	ErrParentNotFound  = errors.New("interaction: parent entity not found")
	ErrCommentNotFound = errors.New("interaction: comment not found")
)

// PartialWriteError reports a dual-write where the first write landed and the
// second failed. The caller must not treat this as a clean failure: the
// authoritative write stood.
type PartialWriteError struct {
	Landed string // the write that succeeded
	Failed string // the write that did not
	Err    error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("interaction: partial write: %s landed, %s failed: %v", e.Landed, e.Failed, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}
