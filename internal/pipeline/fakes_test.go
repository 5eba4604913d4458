package pipeline

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/backmassage/aniconvert/internal/handbrake"
	"github.com/backmassage/aniconvert/internal/planner"
	"github.com/backmassage/aniconvert/internal/scan"
)

// fakeTool stands in for HandBrakeCLI as both Scanner and Encoder. Sources
// scan as two audio tracks (eng, jpn) and one English subtitle. Encoded
// outputs scan with the layout returned by layout, which defaults to the
// plan's expectation.
type fakeTool struct {
	scanErr   error
	encodeErr error
	layout    func(plan *planner.FilePlan) (video, audio, subtitle int)
	delay     time.Duration

	mu        sync.Mutex
	outputs   map[string]*planner.FilePlan // pending output path → plan
	encodes   []*planner.FilePlan
	scans     []string
	active    int
	maxActive int
}

func newFakeTool() *fakeTool {
	return &fakeTool{outputs: make(map[string]*planner.FilePlan)}
}

func (f *fakeTool) Scan(ctx context.Context, path string) (*scan.ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.scans = append(f.scans, path)
	plan, encoded := f.outputs[path]
	f.mu.Unlock()

	if encoded {
		video, audio, subtitle := plan.Expect.MinVideo, plan.Expect.Audio, plan.Expect.Subtitle
		if f.layout != nil {
			video, audio, subtitle = f.layout(plan)
		}
		return encodedScan(path, video, audio, subtitle), nil
	}
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return sourceScan(path), nil
}

func (f *fakeTool) Encode(ctx context.Context, plan *planner.FilePlan, output string, progress func(handbrake.Progress)) error {
	f.mu.Lock()
	f.encodes = append(f.encodes, plan)
	f.outputs[output] = plan
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if progress != nil {
		progress(handbrake.Progress{Task: 1, Tasks: 1, Percent: 50})
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.encodeErr != nil {
		return f.encodeErr
	}
	return os.WriteFile(output, []byte("encoded"), 0o644)
}

func (f *fakeTool) encodeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.encodes)
}

func sourceScan(path string) *scan.ScanResult {
	return &scan.ScanResult{
		SourcePath: path,
		Title:      scan.Title{Number: 1, Width: 1920, Height: 1080},
		AudioTracks: []scan.Track{
			{Index: 1, Kind: scan.KindAudio, Language: "eng", LanguageName: "English", Codec: "AAC", Descriptor: "2.0 ch"},
			{Index: 2, Kind: scan.KindAudio, Language: "jpn", LanguageName: "Japanese", Codec: "AAC", Descriptor: "2.0 ch"},
		},
		SubtitleTracks: []scan.Track{
			{Index: 1, Kind: scan.KindSubtitle, Language: "eng", LanguageName: "English", Codec: "SSA", Descriptor: "Text"},
		},
	}
}

func encodedScan(path string, video, audio, subtitle int) *scan.ScanResult {
	res := &scan.ScanResult{SourcePath: path, Title: scan.Title{Number: 1, Width: 1920, Height: 1080}}
	idx := 0
	add := func(kind scan.Kind, n int) {
		for range n {
			res.Streams = append(res.Streams, scan.Stream{Index: idx, Kind: kind})
			idx++
		}
	}
	add(scan.KindVideo, video)
	add(scan.KindAudio, audio)
	add(scan.KindSubtitle, subtitle)
	return res
}
