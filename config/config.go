package config

import "github.com/rs/zerolog"

type PNGConfig struct {
	LogLevel zerolog.Level
	// Pretty selects the multi-line console writer over raw JSON log lines.
	Pretty bool
	// MaxInflateSize caps the size of the inflated IDAT stream. Zero disables the cap.
	MaxInflateSize int64
}

const DefaultMaxInflateSize = 256 << 20

func Default() PNGConfig {
	return PNGConfig{
		LogLevel:       zerolog.InfoLevel,
		Pretty:         true,
		MaxInflateSize: DefaultMaxInflateSize,
	}
}

// Config is the process-wide configuration. The CLI overwrites fields from
// flags before any decoding starts.
var Config = Default()
