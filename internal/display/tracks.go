package display

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/backmassage/aniconvert/internal/pipeline"
	"github.com/backmassage/aniconvert/internal/planner"
	"github.com/backmassage/aniconvert/internal/scan"
)

var (
	heading = color.New(color.Bold).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	chosen  = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// RenderAnalysis returns the track table of one analyzed file with the
// selected audio and subtitle tracks marked. root shortens the file name.
func RenderAnalysis(a pipeline.Analysis, root string) string {
	var b strings.Builder
	name := relName(root, a.SourcePath)
	if a.Err != nil {
		fmt.Fprintf(&b, "%s\n  %s\n", heading(name), failed(firstLine(a.Err.Error())))
		return b.String()
	}

	res := a.Result
	fmt.Fprintf(&b, "%s  %s\n", heading(name), titleLabel(res.Title))
	if res.LayoutMismatch() {
		fmt.Fprintf(&b, "  %s\n", warning(fmt.Sprintf(
			"libav reports %d audio / %d subtitle streams, HandBrake %d / %d: track titles unavailable",
			res.StreamCount(scan.KindAudio), res.StreamCount(scan.KindSubtitle),
			len(res.AudioTracks), len(res.SubtitleTracks))))
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Kind", "#", "Lang", "Codec", "Details", "Title", "Selected"})
	appendTracks(tw, res.AudioTracks, a.Selection.Audio, a.Selection.AudioReason)
	appendTracks(tw, res.SubtitleTracks, a.Selection.Subtitle, a.Selection.SubtitleReason)
	if len(res.AudioTracks)+len(res.SubtitleTracks) == 0 {
		tw.AppendRow(table.Row{"", "", "", "", "no audio or subtitle tracks", "", ""})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 6, WidthMax: 40, WidthMaxEnforcer: text.Trim},
	})
	b.WriteString(tw.Render())
	b.WriteString("\n")
	return b.String()
}

func appendTracks(tw table.Writer, tracks []scan.Track, sel *scan.Track, reason planner.Reason) {
	for _, t := range tracks {
		mark := ""
		if sel != nil && sel.Index == t.Index {
			mark = chosen("✓ " + string(reason))
		}
		tw.AppendRow(table.Row{
			string(t.Kind),
			t.Index,
			languageLabel(t),
			t.Codec,
			trackDetails(t),
			t.Title,
			mark,
		})
	}
}

func languageLabel(t scan.Track) string {
	if t.LanguageName == "" {
		return t.Language
	}
	return t.Language + " (" + t.LanguageName + ")"
}

func trackDetails(t scan.Track) string {
	parts := []string{}
	if t.Descriptor != "" {
		parts = append(parts, t.Descriptor)
	}
	if t.SampleRate > 0 {
		parts = append(parts, strconv.Itoa(t.SampleRate)+" Hz")
	}
	if br := FormatBitrate(t.BitRate); br != "" {
		parts = append(parts, br)
	}
	return strings.Join(parts, ", ")
}

func titleLabel(t scan.Title) string {
	var parts []string
	if t.Number > 0 {
		parts = append(parts, fmt.Sprintf("title %d", t.Number))
	}
	if t.Duration > 0 {
		parts = append(parts, t.Duration.Round(time.Second).String())
	}
	if t.Width > 0 && t.Height > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", t.Width, t.Height))
	}
	return strings.Join(parts, ", ")
}
