package pipeline

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Total            int
	Converted        int
	Skipped          int
	Failed           int
	TotalInputBytes  int64
	TotalOutputBytes int64
}

// Add counts one outcome.
func (s *RunStats) Add(o Outcome) {
	s.Total++
	switch o.Status {
	case StatusConverted:
		s.Converted++
		s.TotalInputBytes += o.InputBytes
		s.TotalOutputBytes += o.OutputBytes
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller; negative means they grew.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}

// Summarize folds outcomes into RunStats.
func Summarize(outcomes []Outcome) RunStats {
	var s RunStats
	for _, o := range outcomes {
		s.Add(o)
	}
	return s
}
