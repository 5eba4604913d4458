package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// Dimensions is a target output frame size. The zero value keeps the source size.
type Dimensions struct {
	Width  int
	Height int
}

// IsAuto reports whether no resize was requested.
func (d Dimensions) IsAuto() bool { return d.Width == 0 && d.Height == 0 }

func (d Dimensions) String() string {
	if d.IsAuto() {
		return "auto"
	}
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Validate checks every setting, normalizes language lists and formats, and
// fills derived fields (OutputSize, the default output directory). It must
// run after CLI flags have been applied.
func (c *Config) Validate() error {
	if err := c.ValidateSettings(); err != nil {
		return err
	}
	if c.InputDir == "" {
		return errors.New("need an input directory")
	}
	c.InputDir = NormalizeDirArg(c.InputDir)
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = c.InputDir + defaultOutputSuffix
	}
	c.Paths.OutputDir = NormalizeDirArg(c.Paths.OutputDir)
	return nil
}

// ValidateSettings is Validate without the directory requirements, for
// commands that do not convert a directory.
func (c *Config) ValidateSettings() error {
	switch c.Output.Collision {
	case CollisionFail, CollisionSkip, CollisionOverwrite, CollisionRename:
		// valid
	default:
		return fmt.Errorf("invalid collision policy %q (use 'fail', 'skip', 'overwrite' or 'rename')", c.Output.Collision)
	}

	c.Output.Format = OutputFormat(strings.ToLower(strings.TrimPrefix(string(c.Output.Format), ".")))
	switch c.Output.Format {
	case FormatMP4, FormatMKV, FormatM4V:
		// valid
	default:
		return fmt.Errorf("invalid output format %q (use 'mp4', 'mkv' or 'm4v')", c.Output.Format)
	}

	switch c.Logging.Color {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.Logging.Color)
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil || strings.TrimSpace(c.Logging.Level) == "" {
		return fmt.Errorf("invalid log level %q (use 'debug', 'info', 'warn' or 'error')", c.Logging.Level)
	}

	size, err := ParseDimensions(c.Output.Dimensions)
	if err != nil {
		return err
	}
	c.OutputSize = size

	formats, err := normalizeFormats(c.Paths.InputFormats)
	if err != nil {
		return err
	}
	c.Paths.InputFormats = formats

	if c.Languages.Audio, err = NormalizeLanguages(c.Languages.Audio); err != nil {
		return fmt.Errorf("audio languages: %w", err)
	}
	if c.Languages.Subtitle, err = NormalizeLanguages(c.Languages.Subtitle); err != nil {
		return fmt.Errorf("subtitle languages: %w", err)
	}

	if c.Encoder.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1 (got %d)", c.Encoder.Jobs)
	}
	if strings.TrimSpace(c.Encoder.HandBrakePath) == "" {
		c.Encoder.HandBrakePath = defaultHandBrake
	}
	return checkEncoderArgs(c.Encoder.Args)
}

// ValidatePaths ensures the resolved output directory is not the input
// directory, and not inside it when discovery is recursive. Both arguments
// must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	if outputAbs == inputAbs {
		return errors.New("output directory must differ from input directory")
	}
	sep := string(filepath.Separator)
	if c.Paths.Recursive && strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory when recursing")
	}
	return nil
}

// ParseDimensions accepts "auto" (or empty), "1080p", "720p" and "WxH".
func ParseDimensions(raw string) (Dimensions, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "", "auto":
		return Dimensions{}, nil
	case "1080p":
		return Dimensions{Width: 1920, Height: 1080}, nil
	case "720p":
		return Dimensions{Width: 1280, Height: 720}, nil
	}
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return Dimensions{}, fmt.Errorf("invalid dimensions %q (use 'auto', '1080p', '720p' or WxH)", raw)
	}
	width, errW := strconv.Atoi(strings.TrimSpace(w))
	height, errH := strconv.Atoi(strings.TrimSpace(h))
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return Dimensions{}, fmt.Errorf("invalid dimensions %q (width and height must be positive integers)", raw)
	}
	return Dimensions{Width: width, Height: height}, nil
}

// NormalizeLanguages lowercases, converts ISO 639-1 codes and ISO 639-2/B
// codes to the ISO 639-2/T form HandBrake reports ("de" and "ger" both become
// "deu") and drops duplicates while preserving order. Other three-letter
// alphabetic codes are kept as typed so that codes the language tables do not
// know (and "und") still match scan output.
func NormalizeLanguages(codes []string) ([]string, error) {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, raw := range codes {
		code := strings.ToLower(strings.TrimSpace(raw))
		if code == "" {
			continue
		}
		norm, err := normalizeLanguage(code)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out, nil
}

func normalizeLanguage(code string) (string, error) {
	if code == "unknown" {
		return "und", nil
	}
	if !isAlpha(code) {
		return "", fmt.Errorf("invalid language code %q", code)
	}
	switch len(code) {
	case 3:
		if t, ok := bibliographicCodes[code]; ok {
			return t, nil
		}
		return code, nil
	case 2:
		base, err := language.ParseBase(code)
		if err != nil {
			return "", fmt.Errorf("unknown language code %q", code)
		}
		return base.ISO3(), nil
	default:
		return "", fmt.Errorf("invalid language code %q (use ISO 639 two or three letter codes)", code)
	}
}

// bibliographicCodes maps the ISO 639-2/B codes that differ from their
// terminology form.
var bibliographicCodes = map[string]string{
	"alb": "sqi", "arm": "hye", "baq": "eus", "bur": "mya", "chi": "zho",
	"cze": "ces", "dut": "nld", "fre": "fra", "geo": "kat", "ger": "deu",
	"gre": "ell", "ice": "isl", "mac": "mkd", "mao": "mri", "may": "msa",
	"per": "fas", "rum": "ron", "slo": "slk", "tib": "bod", "wel": "cym",
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return s != ""
}

func normalizeFormats(formats []string) ([]string, error) {
	out := make([]string, 0, len(formats))
	seen := make(map[string]struct{}, len(formats))
	for _, raw := range formats {
		f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), "."))
		if f == "" {
			continue
		}
		if strings.ContainsAny(f, `/\.`) {
			return nil, fmt.Errorf("invalid input format %q", raw)
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, errors.New("need at least one input format")
	}
	return out, nil
}

// reservedArgs are supplied per file and may not appear in the fixed args.
var reservedArgs = map[string]struct{}{
	"-i": {}, "--input": {},
	"-o": {}, "--output": {},
	"-a": {}, "--audio": {},
	"-s": {}, "--subtitle": {},
	"-w": {}, "--width": {},
	"-l": {}, "--height": {},
	"-f": {}, "--format": {},
	"--scan": {},
}

func checkEncoderArgs(args []string) error {
	for _, a := range args {
		name, _, _ := strings.Cut(a, "=")
		if _, bad := reservedArgs[name]; bad {
			return fmt.Errorf("encoder args must not contain %s (set per file)", name)
		}
	}
	return nil
}
