package scan

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrNoTrackSections is returned when the report contains neither an audio
// nor a subtitle track section. That means the tool crashed, the file is
// not a readable video, or the output was empty.
var ErrNoTrackSections = errors.New("scan output has no audio or subtitle track sections")

var (
	reTitleHeader  = regexp.MustCompile(`^\+ title (\d+):`)
	reTrackSection = regexp.MustCompile(`^\+ (audio|subtitle) tracks:\s*$`)
	reOtherHeader  = regexp.MustCompile(`^\+ [^\d\s][^:]*:`)
	reTrack        = regexp.MustCompile(`^\+ (\d+), (.*?)\s*\(iso639-2: ([A-Za-z]+)\)(.*)$`)
	reAudioRates   = regexp.MustCompile(`^,\s*(\d+)Hz,\s*(\d+)bps`)
	reParenGroup   = regexp.MustCompile(`\(([^()]*)\)`)
	reBracketGroup = regexp.MustCompile(`\[([^\[\]]+)\]`)
	reSize         = regexp.MustCompile(`^\+ size: (\d+)x(\d+)`)
	reDuration     = regexp.MustCompile(`^\+ duration: (\d+):(\d{2}):(\d{2})`)

	reLibavInput    = regexp.MustCompile(`^Input #0,`)
	reLibavStream   = regexp.MustCompile(`^\s+Stream #\d+[:.](\d+)(?:\[[^\]]*\])?(?:\(([A-Za-z]+)\))?(?:\[[^\]]*\])?: (\w+): ([\w-]+)`)
	reLibavMetadata = regexp.MustCompile(`^\s+Metadata:\s*$`)
	reLibavKV       = regexp.MustCompile(`^\s+(\S+)\s*: (.*)$`)
)

var libavKinds = map[string]Kind{
	"Video":      KindVideo,
	"Audio":      KindAudio,
	"Subtitle":   KindSubtitle,
	"Attachment": KindAttachment,
	"Data":       KindData,
}

// parser is a line-oriented state machine over one scan report.
type parser struct {
	res *ScanResult

	section  Kind // KindAudio, KindSubtitle or "" outside a track section
	titles   int
	sections map[Kind]bool
	indexes  map[Kind]map[int]bool

	inLibav    bool
	libavDone  bool
	stream     int // index into res.Streams of the stream being read, or -1
	inMetadata bool
}

// Parse converts a raw scan report into a ScanResult. Only the first title is
// used. A later track with an index already seen for its kind is dropped.
// When the libav stream table agrees with HandBrake's track counts, stream
// titles are attached to the tracks in order.
func Parse(raw string) (*ScanResult, error) {
	p := &parser{
		res:      &ScanResult{},
		sections: make(map[Kind]bool, 2),
		indexes:  map[Kind]map[int]bool{KindAudio: {}, KindSubtitle: {}},
		stream:   -1,
	}
	for _, line := range splitLines(raw) {
		p.line(line)
	}
	if !p.sections[KindAudio] && !p.sections[KindSubtitle] {
		return nil, ErrNoTrackSections
	}
	p.res.attachTitles()
	return p.res, nil
}

// splitLines splits on both \n and \r; encode progress is \r-separated.
func splitLines(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == '\r' })
}

func (p *parser) line(line string) {
	if !p.libavDone && reLibavInput.MatchString(line) {
		p.inLibav = true
		return
	}
	if p.inLibav {
		if line != "" && (line[0] == ' ' || line[0] == '\t') {
			p.libavLine(line)
			return
		}
		p.inLibav = false
		p.libavDone = true
		p.stream = -1
	}

	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "+ ") {
		return
	}

	if m := reTitleHeader.FindStringSubmatch(trimmed); m != nil {
		p.titles++
		p.section = ""
		if p.titles == 1 {
			p.res.Title.Number, _ = strconv.Atoi(m[1])
		}
		return
	}
	if m := reTrackSection.FindStringSubmatch(trimmed); m != nil {
		kind := Kind(m[1])
		p.sections[kind] = true
		p.section = kind
		if p.titles > 1 {
			p.section = ""
		}
		return
	}
	if p.titles > 1 {
		return
	}
	if m := reTrack.FindStringSubmatch(trimmed); m != nil {
		if p.section != "" {
			p.track(m)
		}
		return
	}
	if m := reSize.FindStringSubmatch(trimmed); m != nil {
		p.res.Title.Width, _ = strconv.Atoi(m[1])
		p.res.Title.Height, _ = strconv.Atoi(m[2])
	} else if m := reDuration.FindStringSubmatch(trimmed); m != nil {
		h, _ := strconv.Atoi(m[1])
		mi, _ := strconv.Atoi(m[2])
		s, _ := strconv.Atoi(m[3])
		p.res.Title.Duration = time.Duration(h)*time.Hour + time.Duration(mi)*time.Minute + time.Duration(s)*time.Second
	}
	if reOtherHeader.MatchString(trimmed) {
		p.section = ""
	}
}

func (p *parser) track(m []string) {
	index, err := strconv.Atoi(m[1])
	if err != nil || index <= 0 {
		return
	}
	if p.indexes[p.section][index] {
		return
	}
	p.indexes[p.section][index] = true

	desc, rest := m[2], m[4]
	t := Track{
		Index:        index,
		Kind:         p.section,
		Language:     NormalizeLanguage(m[3]),
		LanguageName: languageName(desc),
	}

	switch p.section {
	case KindAudio:
		if groups := reParenGroup.FindAllStringSubmatch(desc, -1); len(groups) > 0 {
			codec, channels, _ := strings.Cut(groups[0][1], ", ")
			t.Codec = strings.TrimSpace(codec)
			parts := []string{}
			if channels != "" {
				parts = append(parts, channels)
			}
			for _, g := range groups[1:] {
				parts = append(parts, g[1])
			}
			t.Descriptor = strings.Join(parts, " ")
		}
		if r := reAudioRates.FindStringSubmatch(rest); r != nil {
			t.SampleRate, _ = strconv.Atoi(r[1])
			t.BitRate, _ = strconv.Atoi(r[2])
		}
		p.res.AudioTracks = append(p.res.AudioTracks, t)

	case KindSubtitle:
		groups := reParenGroup.FindAllStringSubmatch(rest, -1)
		if len(groups) > 0 {
			t.Descriptor = groups[0][1]
		}
		if len(groups) > 1 {
			t.Codec = groups[1][1]
		}
		if t.Codec == "" {
			if b := reBracketGroup.FindStringSubmatch(desc); b != nil {
				t.Codec = b[1]
			} else if g := reParenGroup.FindStringSubmatch(desc); g != nil {
				t.Codec = g[1]
			}
		}
		p.res.SubtitleTracks = append(p.res.SubtitleTracks, t)
	}
}

func (p *parser) libavLine(line string) {
	if m := reLibavStream.FindStringSubmatch(line); m != nil {
		p.inMetadata = false
		kind, ok := libavKinds[m[3]]
		if !ok {
			p.stream = -1
			return
		}
		index, _ := strconv.Atoi(m[1])
		p.res.Streams = append(p.res.Streams, Stream{
			Index:    index,
			Kind:     kind,
			Codec:    m[4],
			Language: NormalizeLanguage(m[2]),
		})
		p.stream = len(p.res.Streams) - 1
		return
	}
	if reLibavMetadata.MatchString(line) {
		p.inMetadata = p.stream >= 0
		return
	}
	if p.inMetadata {
		if m := reLibavKV.FindStringSubmatch(line); m != nil {
			if strings.EqualFold(m[1], "title") {
				p.res.Streams[p.stream].Title = strings.TrimSpace(m[2])
			}
			return
		}
		p.inMetadata = false
	}
}

// attachTitles copies libav stream titles onto HandBrake tracks when both
// agree on the track layout.
func (r *ScanResult) attachTitles() {
	if !r.HasStreamTable() || r.LayoutMismatch() {
		return
	}
	attach := func(tracks []Track, kind Kind) {
		i := 0
		for _, s := range r.Streams {
			if s.Kind != kind {
				continue
			}
			tracks[i].Title = s.Title
			i++
		}
	}
	attach(r.AudioTracks, KindAudio)
	attach(r.SubtitleTracks, KindSubtitle)
}

// languageName returns the description text before the first parenthesised
// or bracketed group.
func languageName(desc string) string {
	if i := strings.IndexAny(desc, "(["); i >= 0 {
		desc = desc[:i]
	}
	return strings.TrimSpace(desc)
}

// NormalizeLanguage lower-cases a language code and maps "unknown" and the
// empty string to "und".
func NormalizeLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == "unknown" {
		return UndeterminedLanguage
	}
	return code
}
