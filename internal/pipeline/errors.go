package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/backmassage/aniconvert/internal/handbrake"
	"github.com/backmassage/aniconvert/internal/naming"
	"github.com/backmassage/aniconvert/internal/planner"
	"github.com/backmassage/aniconvert/internal/scan"
)

// Kind classifies why a job failed.
type Kind string

const (
	ParseError          Kind = "ParseError"
	SelectionImpossible Kind = "SelectionImpossible"
	DestinationConflict Kind = "DestinationConflict"
	EncodeFailure       Kind = "EncodeFailure"
	TrackCountMismatch  Kind = "TrackCountMismatch"
	IOError             Kind = "IOError"
)

// JobError is the error attached to a failed Outcome.
type JobError struct {
	Kind Kind
	Path string // file the operation was acting on
	Op   string // "scan", "select", "resolve", "encode", "validate", "write"
	Err  error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *JobError) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first JobError in err's chain.
func KindOf(err error) (Kind, bool) {
	var je *JobError
	if errors.As(err, &je) {
		return je.Kind, true
	}
	return "", false
}

// classify wraps err from operation op on path into a JobError. Context
// cancellation is returned unwrapped so callers can tell an interrupted
// batch from a failed file.
func classify(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var (
		exitErr  *handbrake.ExitError
		countErr *handbrake.TrackCountError
		kind     Kind
	)
	switch {
	case errors.As(err, &countErr):
		kind = TrackCountMismatch
	case errors.As(err, &exitErr):
		kind = EncodeFailure
	case errors.Is(err, scan.ErrNoTrackSections):
		kind = ParseError
		if op == "validate" {
			// The encode produced something the tool cannot read back.
			kind = EncodeFailure
		}
	case errors.Is(err, planner.ErrSelectionImpossible):
		kind = SelectionImpossible
	case errors.Is(err, naming.ErrDestinationExists):
		kind = DestinationConflict
	default:
		kind = IOError
	}
	return &JobError{Kind: kind, Path: path, Op: op, Err: err}
}
