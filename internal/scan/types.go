package scan

import "time"

// Kind identifies a track or stream type.
type Kind string

const (
	KindVideo      Kind = "video"
	KindAudio      Kind = "audio"
	KindSubtitle   Kind = "subtitle"
	KindAttachment Kind = "attachment"
	KindData       Kind = "data"
)

// UndeterminedLanguage is the ISO 639-2 code for an unknown language.
const UndeterminedLanguage = "und"

// Track is one HandBrake audio or subtitle track. Index is HandBrake's
// 1-based track number, the value passed to -a / -s.
type Track struct {
	Index        int
	Kind         Kind
	Language     string // ISO 639-2, lower case
	LanguageName string // e.g. "Japanese"
	Codec        string // audio: "AAC", "AC3"; subtitle: "SSA", "PGS"
	Descriptor   string // audio: channel layout; subtitle: "Text" or "Bitmap"
	Title        string // from the libav stream table when layouts agree
	SampleRate   int    // Hz, audio only, 0 if not reported
	BitRate      int    // bps, audio only, 0 if not reported
}

// Stream is one entry of the libav stream table HandBrake echoes while
// opening a file. Index is the container stream index (0-based).
type Stream struct {
	Index    int
	Kind     Kind
	Codec    string
	Language string
	Title    string
}

// Title is the first title block of the scan report.
type Title struct {
	Number   int
	Duration time.Duration
	Width    int
	Height   int
}

// ScanResult is the parsed scan report of one file. Track and stream slices
// keep the tool's native order.
type ScanResult struct {
	SourcePath     string
	Title          Title
	AudioTracks    []Track
	SubtitleTracks []Track
	Streams        []Stream
}

// Tracks returns the HandBrake tracks of the given kind.
func (r *ScanResult) Tracks(kind Kind) []Track {
	switch kind {
	case KindAudio:
		return r.AudioTracks
	case KindSubtitle:
		return r.SubtitleTracks
	}
	return nil
}

// HasStreamTable reports whether the libav stream table was present.
func (r *ScanResult) HasStreamTable() bool { return len(r.Streams) > 0 }

// StreamCount returns the number of libav streams of the given kind.
func (r *ScanResult) StreamCount(kind Kind) int {
	n := 0
	for _, s := range r.Streams {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// LayoutMismatch reports whether libav and HandBrake disagree on the number
// of audio or subtitle tracks. This happens when libav misidentifies a
// codec (typically ASS subtitles) and HandBrake drops or merges the track.
// Always false without a stream table.
func (r *ScanResult) LayoutMismatch() bool {
	if !r.HasStreamTable() {
		return false
	}
	return r.StreamCount(KindAudio) != len(r.AudioTracks) ||
		r.StreamCount(KindSubtitle) != len(r.SubtitleTracks)
}

// Counts returns the number of video, audio and subtitle streams. The libav
// table is used when present; otherwise HandBrake's track lists, with video
// counted from the title's frame size.
func (r *ScanResult) Counts() (video, audio, subtitle int) {
	if r.HasStreamTable() {
		return r.StreamCount(KindVideo), r.StreamCount(KindAudio), r.StreamCount(KindSubtitle)
	}
	if r.Title.Width > 0 && r.Title.Height > 0 {
		video = 1
	}
	return video, len(r.AudioTracks), len(r.SubtitleTracks)
}
