package config

import "runtime"

// OutputExtension is the extension of every converted file.
const OutputExtension = ".flac"

const (
	defaultConfigPath       = "~/.config/ncmconv/config.toml"
	defaultStateDirFallback = "~/.local/state/ncmconv"
	defaultLogDir           = "~/.local/state/ncmconv/logs"
	defaultTranscoderBinary = "ffmpeg"
	defaultWatchExtension   = ".ncm"
	defaultWatchDebounceMS  = 500
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
	defaultLogMaxSizeMB     = 20
)

func defaultConversionWorkers() int {
	n := runtime.NumCPU() / 2
	if n < 1 {
		return 1
	}
	return n
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir(),
			LogDir:   defaultLogDir,
		},
		Transcoder: Transcoder{
			Binary: defaultTranscoderBinary,
		},
		Watch: Watch{
			Extension:  defaultWatchExtension,
			DebounceMS: defaultWatchDebounceMS,
		},
		Workers: Workers{
			Conversions: defaultConversionWorkers(),
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
			MaxSizeMB:     defaultLogMaxSizeMB,
		},
		History: History{
			Enabled: true,
		},
	}
}
