package display

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/backmassage/aniconvert/internal/pipeline"
)

// detailWidth caps the detail column; failures carry multi-line tool output.
const detailWidth = 60

var (
	converted = color.New(color.FgGreen).SprintFunc()
	skipped   = color.New(color.FgYellow).SprintFunc()
	failed    = color.New(color.FgRed, color.Bold).SprintFunc()
)

// RenderSummary returns the end-of-batch table: one row per file in
// discovery order, and a footer with the totals.
func RenderSummary(report *pipeline.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"#", "File", "Status", "Size", "Time", "Detail"})

	for i, o := range report.Outcomes {
		tw.AppendRow(table.Row{
			i + 1,
			relName(report.InputRoot, o.SourcePath),
			statusLabel(o),
			sizeLabel(o),
			FormatDuration(o.Duration),
			detailLabel(report, o),
		})
	}

	s := report.Stats
	counts := fmt.Sprintf("%s / %s / %s",
		converted(s.Converted), skipped(s.Skipped), failed(s.Failed))
	saved := ""
	if !report.DryRun && s.Converted > 0 {
		saved = "saved " + FormatBytesWithSign(s.SpaceSaved())
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d files", s.Total), counts, saved, "", ""})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, WidthMax: detailWidth, WidthMaxEnforcer: text.Trim},
	})
	return tw.Render()
}

func statusLabel(o pipeline.Outcome) string {
	switch o.Status {
	case pipeline.StatusConverted:
		return converted(o.Status.String())
	case pipeline.StatusSkipped:
		return skipped(o.Status.String())
	}
	if kind, ok := pipeline.KindOf(o.Err); ok {
		return failed(fmt.Sprintf("%s (%s)", o.Status, kind))
	}
	return failed(o.Status.String())
}

func sizeLabel(o pipeline.Outcome) string {
	if o.Status != pipeline.StatusConverted {
		return FormatBytes(o.InputBytes)
	}
	return FormatBytes(o.InputBytes) + " → " + FormatBytes(o.OutputBytes)
}

func detailLabel(report *pipeline.Report, o pipeline.Outcome) string {
	if o.Status == pipeline.StatusConverted {
		return relName(report.OutputRoot, o.DestinationPath)
	}
	return firstLine(o.Detail)
}
