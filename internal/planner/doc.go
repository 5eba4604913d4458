// Package planner picks the audio and subtitle track for a file and builds
// the FilePlan that the handbrake package turns into an encode invocation.
//
// Track selection ([Select]) is deterministic: priority languages are
// walked front to back, ties go to the track listed first by the tool, and
// when nothing matches the first track is used ([fallback]).
package planner
