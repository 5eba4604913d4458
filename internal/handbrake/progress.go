package handbrake

import (
	"bytes"
	"regexp"
	"strconv"
	"time"
)

// Progress is one parsed encode status line:
//
//	Encoding: task 1 of 1, 45.23 % (30.12 fps, avg 28.00 fps, ETA 00h05m12s)
//
// The rate and ETA part is missing for the first second or so of an encode.
type Progress struct {
	Task    int
	Tasks   int
	Percent float64
	FPS     float64
	AvgFPS  float64
	ETA     time.Duration
	HasRate bool
}

var reProgress = regexp.MustCompile(
	`Encoding: task (\d+) of (\d+), (\d+(?:\.\d+)?) %` +
		`(?: \((\d+(?:\.\d+)?) fps, avg (\d+(?:\.\d+)?) fps, ETA (\d+)h(\d+)m(\d+)s\))?`)

// ParseProgress extracts a Progress from line.
func ParseProgress(line string) (Progress, bool) {
	m := reProgress.FindStringSubmatch(line)
	if m == nil {
		return Progress{}, false
	}
	var p Progress
	p.Task, _ = strconv.Atoi(m[1])
	p.Tasks, _ = strconv.Atoi(m[2])
	p.Percent, _ = strconv.ParseFloat(m[3], 64)
	if m[4] != "" {
		p.HasRate = true
		p.FPS, _ = strconv.ParseFloat(m[4], 64)
		p.AvgFPS, _ = strconv.ParseFloat(m[5], 64)
		h, _ := strconv.Atoi(m[6])
		mi, _ := strconv.Atoi(m[7])
		s, _ := strconv.Atoi(m[8])
		p.ETA = time.Duration(h)*time.Hour + time.Duration(mi)*time.Minute + time.Duration(s)*time.Second
	}
	return p, true
}

// Overall returns completion across all tasks in percent. Two-pass encodes
// report each pass as a task.
func (p Progress) Overall() float64 {
	if p.Tasks <= 1 {
		return p.Percent
	}
	return (float64(p.Task-1)*100 + p.Percent) / float64(p.Tasks)
}

// scanLines is a bufio.SplitFunc that splits on \n or \r. HandBrake rewrites
// its progress line in place with carriage returns.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
