package hueslicer

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fatal error kinds of spec section 7. Wrap these
// with fmt.Errorf("...: %w", ErrX) at the detection site so callers can
// branch with errors.Is.
var (
	// ErrInvalidArgument is returned for out-of-range parameters, e.g. a
	// resolution <= 0 or mask dimensions that don't match the grid.
	ErrInvalidArgument = errors.New("hueslicer: invalid argument")

	// ErrFormat is returned when a binary mesh container is malformed:
	// too short, a truncated record, or a triangle count exceeding the
	// remaining stream length.
	ErrFormat = errors.New("hueslicer: malformed mesh container")

	// ErrIO is returned on a read or write failure against a stream.
	ErrIO = errors.New("hueslicer: stream io error")
)

// EmptySeamError records a recovered EmptySeam condition: the seam finder
// found no finite-cost cell in the terminal row and fell back to the
// mid-column vertical line.
type EmptySeamError struct {
	RangeStart, RangeEnd int
	MidColumn            int
}

func (e *EmptySeamError) Error() string {
	return fmt.Sprintf("hueslicer: empty seam in range [%d,%d], fell back to column %d",
		e.RangeStart, e.RangeEnd, e.MidColumn)
}

// OpenLoopError records a recovered OpenLoop condition: a cap's segment
// bag could not be walked into a closed loop.
type OpenLoopError struct {
	CutID        string
	SegmentCount int
}

func (e *OpenLoopError) Error() string {
	return fmt.Sprintf("hueslicer: cut %s left an open loop over %d segments", e.CutID, e.SegmentCount)
}

// DroppedDegenerateError records a recovered DroppedDegenerate condition: a
// triangle record had a NaN coordinate or zero projected area and was
// dropped rather than emitted.
type DroppedDegenerateError struct {
	Index  int
	Reason string
}

func (e *DroppedDegenerateError) Error() string {
	return fmt.Sprintf("hueslicer: dropped degenerate triangle %d: %s", e.Index, e.Reason)
}
