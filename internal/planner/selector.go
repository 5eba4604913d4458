package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/backmassage/aniconvert/internal/scan"
)

// ErrSelectionImpossible is returned by SelectChecked when a track list
// cannot be selected from at all.
var ErrSelectionImpossible = errors.New("track selection impossible")

// Select picks one audio and one subtitle track from res. It never fails:
// an empty list yields no track, an empty priority list or a list with no
// match yields the first track.
func Select(res *scan.ScanResult, audioPriority, subtitlePriority []string) Selection {
	var sel Selection
	sel.Audio, sel.AudioReason = SelectTrack(res.AudioTracks, audioPriority)
	sel.Subtitle, sel.SubtitleReason = SelectTrack(res.SubtitleTracks, subtitlePriority)
	return sel
}

// SelectChecked is Select after verifying every track has a positive index.
func SelectChecked(res *scan.ScanResult, audioPriority, subtitlePriority []string) (Selection, error) {
	for _, tracks := range [][]scan.Track{res.AudioTracks, res.SubtitleTracks} {
		for _, t := range tracks {
			if t.Index <= 0 {
				return Selection{}, fmt.Errorf("%w: %s track with index %d", ErrSelectionImpossible, t.Kind, t.Index)
			}
		}
	}
	return Select(res, audioPriority, subtitlePriority), nil
}

// SelectTrack applies the selection rules to one track list. The returned
// pointer refers to an element of tracks.
func SelectTrack(tracks []scan.Track, priority []string) (*scan.Track, Reason) {
	if len(tracks) == 0 {
		return nil, ReasonNone
	}
	if len(priority) == 0 {
		return &tracks[0], ReasonDefault
	}
	for _, code := range priority {
		for i := range tracks {
			if strings.EqualFold(tracks[i].Language, code) {
				return &tracks[i], ReasonPriority
			}
		}
	}
	return fallback(tracks)
}

// fallback returns the first track in native order.
func fallback(tracks []scan.Track) (*scan.Track, Reason) {
	if len(tracks) == 0 {
		return nil, ReasonNone
	}
	return &tracks[0], ReasonFallback
}
