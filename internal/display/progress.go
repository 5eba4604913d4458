package display

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/aniconvert/internal/handbrake"
	"github.com/backmassage/aniconvert/internal/pipeline"
	"github.com/backmassage/aniconvert/internal/term"
)

// maxBarName caps the file name shown in front of the bar.
const maxBarName = 40

// NewProgress returns a pipeline.ProgressFunc that draws one progress bar
// per encode on w. Bars redraw in place, so w should be a terminal and only
// one encode should run at a time.
func NewProgress(w io.Writer) pipeline.ProgressFunc {
	return func(name string) (func(handbrake.Progress), func()) {
		label := trimName(name, maxBarName)
		bar := progressbar.NewOptions(100,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(label),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionEnableColorCodes(term.Enabled()),
		)
		update := func(p handbrake.Progress) {
			if p.HasRate {
				bar.Describe(fmt.Sprintf("%s  %.1f fps, ETA %s", label, p.AvgFPS, p.ETA))
			}
			_ = bar.Set(int(p.Overall()))
		}
		done := func() {
			_ = bar.Finish()
		}
		return update, done
	}
}

// trimName shortens name to at most n runes, keeping the end, which holds
// the episode number.
func trimName(name string, n int) string {
	r := []rune(name)
	if len(r) <= n {
		return name
	}
	return "…" + string(r[len(r)-n+1:])
}
