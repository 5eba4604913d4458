package planner

import (
	"github.com/backmassage/aniconvert/internal/config"
	"github.com/backmassage/aniconvert/internal/scan"
)

// Reason records why a track was chosen.
type Reason string

const (
	ReasonPriority Reason = "priority" // matched a priority language
	ReasonDefault  Reason = "default"  // no priorities given; first track
	ReasonFallback Reason = "fallback" // no priority matched; first track
	ReasonNone     Reason = "none"     // no tracks of this kind
)

// Selection is the chosen audio and subtitle track. Both point into the
// ScanResult they were selected from; nil means none.
type Selection struct {
	Audio          *scan.Track
	AudioReason    Reason
	Subtitle       *scan.Track
	SubtitleReason Reason
}

// Expectation is the track layout a correct encode must produce.
type Expectation struct {
	MinVideo int
	Audio    int
	Subtitle int
}

// FilePlan holds every per-file decision the encoder needs.
type FilePlan struct {
	InputPath  string
	OutputPath string // final destination
	Format     config.OutputFormat
	Selection  Selection
	Size       config.Dimensions // zero keeps the source size
	BaseArgs   []string          // fixed quality/codec arguments
	Expect     Expectation
}
