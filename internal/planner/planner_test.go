package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/aniconvert/internal/config"
	"github.com/backmassage/aniconvert/internal/scan"
)

// --- Helper builders ---

func defaultCfg() *config.Config {
	cfg := config.DefaultConfig()
	return &cfg
}

func audio(index int, lang string) scan.Track {
	return scan.Track{Index: index, Kind: scan.KindAudio, Language: lang}
}

func subtitle(index int, lang string) scan.Track {
	return scan.Track{Index: index, Kind: scan.KindSubtitle, Language: lang}
}

// dualAudio mirrors a typical fansub release: English dub listed first.
func dualAudio() *scan.ScanResult {
	return &scan.ScanResult{
		SourcePath:     "/in/show.s01e01.mkv",
		AudioTracks:    []scan.Track{audio(1, "eng"), audio(2, "jpn")},
		SubtitleTracks: []scan.Track{subtitle(1, "eng")},
	}
}

// --- SelectTrack ---

func TestSelectTrack(t *testing.T) {
	tracks := []scan.Track{audio(1, "eng"), audio(2, "jpn"), audio(3, "jpn"), audio(4, "und")}
	tests := []struct {
		name       string
		tracks     []scan.Track
		priority   []string
		wantIndex  int // 0 means nil
		wantReason Reason
	}{
		{"empty list", nil, []string{"jpn"}, 0, ReasonNone},
		{"empty priority takes first", tracks, nil, 1, ReasonDefault},
		{"first priority wins", tracks, []string{"jpn", "eng"}, 2, ReasonPriority},
		{"earliest native order breaks ties", tracks, []string{"jpn"}, 2, ReasonPriority},
		{"later priority used when earlier absent", tracks, []string{"fre", "und"}, 4, ReasonPriority},
		{"no match falls back to first", tracks, []string{"fre", "ger"}, 1, ReasonFallback},
		{"case-insensitive", tracks, []string{"JPN"}, 2, ReasonPriority},
		{"no prefix matching", tracks, []string{"jp"}, 1, ReasonFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := SelectTrack(tt.tracks, tt.priority)
			assert.Equal(t, tt.wantReason, reason)
			if tt.wantIndex == 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantIndex, got.Index)
		})
	}
}

func TestSelectTrack_PointsIntoInput(t *testing.T) {
	tracks := []scan.Track{audio(1, "eng"), audio(2, "jpn")}
	got, _ := SelectTrack(tracks, []string{"jpn"})
	assert.Same(t, &tracks[1], got)
}

func TestSelectTrack_Deterministic(t *testing.T) {
	tracks := []scan.Track{audio(1, "jpn"), audio(2, "eng"), audio(3, "jpn")}
	first, _ := SelectTrack(tracks, []string{"eng", "jpn"})
	for range 50 {
		got, _ := SelectTrack(tracks, []string{"eng", "jpn"})
		require.Same(t, first, got)
	}
}

// Whenever a list is non-empty something is selected.
func TestSelectTrack_FallbackGuarantee(t *testing.T) {
	priorities := [][]string{nil, {}, {"jpn"}, {"xxx"}, {"xxx", "yyy"}, {"eng", "jpn"}}
	lists := [][]scan.Track{
		{audio(1, "eng")},
		{audio(5, "und"), audio(6, "fre")},
		{audio(1, "jpn"), audio(2, "eng")},
	}
	for _, list := range lists {
		for _, prio := range priorities {
			got, reason := SelectTrack(list, prio)
			require.NotNil(t, got, "list %v priority %v", list, prio)
			assert.NotEqual(t, ReasonNone, reason)
		}
	}
}

func TestFallback(t *testing.T) {
	got, reason := fallback(nil)
	assert.Nil(t, got)
	assert.Equal(t, ReasonNone, reason)

	tracks := []scan.Track{subtitle(3, "fre"), subtitle(1, "eng")}
	got, reason = fallback(tracks)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Index, "first in native order, not lowest index")
	assert.Equal(t, ReasonFallback, reason)
}

// --- Select / SelectChecked ---

func TestSelect_AudioAndSubtitleIndependent(t *testing.T) {
	sel := Select(dualAudio(), []string{"jpn", "eng"}, []string{"eng"})
	require.NotNil(t, sel.Audio)
	require.NotNil(t, sel.Subtitle)
	assert.Equal(t, "jpn", sel.Audio.Language)
	assert.Equal(t, 2, sel.Audio.Index)
	assert.Equal(t, "eng", sel.Subtitle.Language)
	assert.Equal(t, ReasonPriority, sel.AudioReason)
	assert.Equal(t, ReasonPriority, sel.SubtitleReason)
}

func TestSelect_NoSubtitles(t *testing.T) {
	res := dualAudio()
	res.SubtitleTracks = nil
	sel := Select(res, nil, []string{"eng"})
	assert.Nil(t, sel.Subtitle)
	assert.Equal(t, ReasonNone, sel.SubtitleReason)
	assert.Equal(t, ReasonDefault, sel.AudioReason)
}

func TestSelectChecked(t *testing.T) {
	sel, err := SelectChecked(dualAudio(), []string{"jpn"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, sel.Audio.Index)

	bad := dualAudio()
	bad.SubtitleTracks[0].Index = 0
	_, err = SelectChecked(bad, nil, nil)
	assert.True(t, errors.Is(err, ErrSelectionImpossible), "got %v", err)
}

// Scan text through to selection: eng/jpn audio, eng subtitle.
func TestSelect_FromScanReport(t *testing.T) {
	raw := "+ title 1:\n" +
		"  + audio tracks:\n" +
		"    + 1, English (AAC) (2.0 ch) (iso639-2: eng), 48000Hz, 128000bps\n" +
		"    + 2, Japanese (AAC) (2.0 ch) (iso639-2: jpn), 48000Hz, 128000bps\n" +
		"  + subtitle tracks:\n" +
		"    + 1, English (iso639-2: eng) (Text)(SSA)\n"
	res, err := scan.Parse(raw)
	require.NoError(t, err)

	sel := Select(res, []string{"jpn", "eng"}, []string{"eng"})
	assert.Equal(t, "jpn", sel.Audio.Language)
	assert.Equal(t, "eng", sel.Subtitle.Language)
}

// --- BuildPlan ---

func TestBuildPlan(t *testing.T) {
	cfg := defaultCfg()
	cfg.Output.Format = config.FormatMKV
	cfg.OutputSize = config.Dimensions{Width: 1280, Height: 720}
	res := dualAudio()
	sel := Select(res, cfg.Languages.Audio, cfg.Languages.Subtitle)

	plan := BuildPlan(cfg, res, sel, "/out/show.s01e01.mkv")
	assert.Equal(t, "/in/show.s01e01.mkv", plan.InputPath)
	assert.Equal(t, "/out/show.s01e01.mkv", plan.OutputPath)
	assert.Equal(t, config.FormatMKV, plan.Format)
	assert.Equal(t, cfg.OutputSize, plan.Size)
	assert.Equal(t, cfg.Encoder.Args, plan.BaseArgs)
	assert.Equal(t, Expectation{MinVideo: 1, Audio: 1, Subtitle: 0}, plan.Expect)
}

func TestBuildPlan_NoAudioExpectsNone(t *testing.T) {
	res := dualAudio()
	res.AudioTracks = nil
	sel := Select(res, nil, nil)
	plan := BuildPlan(defaultCfg(), res, sel, "/out/x.mp4")
	assert.Equal(t, 0, plan.Expect.Audio)
	assert.Equal(t, 1, plan.Expect.MinVideo)
}
