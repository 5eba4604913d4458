package config

const (
	defaultConfigFile   = "~/.config/aniconvert/config.toml"
	defaultOutputSuffix = "-converted"
	defaultHandBrake    = "HandBrakeCLI"
	defaultDimensions   = "auto"
	defaultLogLevel     = "info"
	defaultJobs         = 1
)

// DefaultEncoderArgs are the fixed HandBrakeCLI quality and codec arguments.
// They must not contain -i, -o, -a, -s, -w, -l or --format; those are
// supplied per file.
var DefaultEncoderArgs = []string{
	"-E", "ffaac",
	"-B", "160",
	"-6", "dpl2",
	"-R", "Auto",
	"-e", "x264",
	"-q", "20.0",
	"--vfr",
	"--audio-copy-mask", "aac,ac3,dtshd,dts,mp3",
	"--audio-fallback", "ffaac",
	"--loose-anamorphic",
	"--modulus", "2",
	"--x264-preset", "medium",
	"--h264-profile", "high",
	"--h264-level", "3.1",
}

// DefaultConfig returns a Config with repository defaults. Used as the base
// before the config file and CLI flags are applied.
func DefaultConfig() Config {
	return Config{
		Paths: Paths{
			InputFormats: []string{"mkv", "mp4"},
		},
		Output: Output{
			Format:     FormatMP4,
			Collision:  CollisionSkip,
			Dimensions: defaultDimensions,
		},
		Languages: Languages{
			Audio:    []string{"jpn", "eng"},
			Subtitle: []string{"eng"},
		},
		Encoder: Encoder{
			HandBrakePath: defaultHandBrake,
			Args:          append([]string(nil), DefaultEncoderArgs...),
			Jobs:          defaultJobs,
		},
		Logging: Logging{
			Level: defaultLogLevel,
			Color: ColorAuto,
		},
	}
}
