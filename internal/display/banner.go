package display

import (
	"io"

	"github.com/fatih/color"
)

const banner = `             _                                _
  __ _ _ __ (_) ___ ___  _ ____   _____ _ __| |_
 / _` + "`" + ` | '_ \| |/ __/ _ \| '_ \ \ / / _ \ '__| __|
| (_| | | | | | (_| (_) | | | \ V /  __/ |  | |_
 \__,_|_| |_|_|\___\___/|_| |_|\_/ \___|_|   \__|
`

// PrintBanner prints the ASCII art banner, bold magenta when colors are enabled.
func PrintBanner(w io.Writer) {
	color.New(color.FgHiMagenta, color.Bold).Fprint(w, banner)
}
