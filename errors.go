package automation

import "errors"

// Errors returned by curve edits. Check them with errors.Is; callers receive
// them wrapped with the offending key or time.
var (
	// ErrKeyNotFound is returned when a KeyID does not name a key of the curve.
	ErrKeyNotFound = errors.New("automation: key not found")

	// ErrDuplicateTime is returned when inserting a key at a time that
	// already holds one.
	ErrDuplicateTime = errors.New("automation: duplicate key time")

	// ErrKeyOrder is returned when moving a key onto or past one of its
	// neighbours.
	ErrKeyOrder = errors.New("automation: key would leave its neighbour interval")

	// ErrTimeOutOfRange is returned for times outside [0, length].
	ErrTimeOutOfRange = errors.New("automation: time out of range")

	// ErrNotCubic is returned when setting a tangent on a segment whose
	// easing is not cubic.
	ErrNotCubic = errors.New("automation: easing is not cubic")

	// ErrNoSegment is returned when setting a tangent on the last key, which
	// starts no segment.
	ErrNoSegment = errors.New("automation: key has no outgoing segment")

	// ErrInvalidRange is returned for empty, inverted or non-finite ranges
	// and lengths.
	ErrInvalidRange = errors.New("automation: invalid range")

	// ErrInvalidDocument is returned when a serialized curve violates key
	// ordering or range constraints.
	ErrInvalidDocument = errors.New("automation: invalid document")

	// ErrNothingToUndo is returned by Editor.Undo and Editor.Redo when
	// their history is empty.
	ErrNothingToUndo = errors.New("automation: nothing to undo")

	// ErrNotPainting is returned when extending or ending a freehand stroke
	// that was never started.
	ErrNotPainting = errors.New("automation: no freehand stroke in progress")
)
