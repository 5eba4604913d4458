// Package handbrake builds and runs HandBrakeCLI encodes and validates the
// track layout of what they produce.
//
// The argument list is the configured fixed quality arguments followed by
// the per-file input, output, container, track and size options. Audio is
// reduced to the single chosen track and the chosen subtitle is burned in,
// so a correct output has one video stream, at most one audio stream and no
// subtitle streams. [Validate] checks exactly that and reports a
// [TrackCountError] otherwise; a failed process is an [ExitError]. There is
// no retry: a failed encode is reported and the batch moves on.
package handbrake
