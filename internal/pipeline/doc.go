// Package pipeline orchestrates file discovery, per-file conversion and batch
// summary reporting.
//
// A [Job] drives one source file through scanning, track selection,
// destination resolution, encoding and validation, and always yields exactly
// one [Outcome]. [Run] discovers the input tree and runs jobs on a bounded
// worker pool. [Analyze] performs the scan and selection steps only, for the
// scan command.
//
// Failures are reported as [*JobError] values whose [Kind] names the failure
// class; a failed file never stops the batch.
package pipeline
