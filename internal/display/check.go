package display

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/backmassage/aniconvert/internal/check"
)

var (
	pass = color.New(color.FgGreen).SprintFunc()
	fail = color.New(color.FgRed).SprintFunc()
)

// RenderCheck returns one line per diagnostic result.
func RenderCheck(results []check.Result) string {
	var b strings.Builder
	for _, r := range results {
		mark := pass("✓")
		if !r.Passed {
			mark = fail("✗")
		}
		fmt.Fprintf(&b, "  %s %-18s %s\n", mark, r.Name, r.Detail)
	}
	return b.String()
}
