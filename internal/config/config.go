package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Image normalisation
const (
	ImageSize        = 100               // Edge of the normalised square image in pixels
	JPEGQuality      = 10                // Quality used when re-encoding the normalised image
	CompressedSuffix = "_compressed.jpg" // Appended to the input file name for the artifact
)

// Tone mapping
const (
	ChunkSize      = 10  // Brightness values averaged into one tone
	FrequencyScale = 20  // Hz per unit of average brightness
	ToneDuration   = 0.1 // Seconds per tone
)

// Audio settings
const (
	SampleRate = 44100
	Channels   = 2
	Gain       = 0.2 // Sine amplitude, full scale is 1.0
)

// Timeline chart appearance
const (
	ChartWidth  = 1280
	ChartHeight = 360
	ChartMargin = 24

	// Default bar colour, overridable with --chart-color
	ChartBarColor = "#A40000"

	// Text colour for the chart title (brand yellow #F8B31D)
	TextColorR = 248
	TextColorG = 179
	TextColorB = 29
)

// Encoding selects the format tag declared in the WAV header.
// The payload is always little-endian 32-bit float samples.
type Encoding int

const (
	// EncodingFloat declares WAVE_FORMAT_IEEE_FLOAT, matching the payload.
	EncodingFloat Encoding = iota
	// EncodingALaw declares WAVE_FORMAT_ALAW (8-bit), reproducing the
	// header of files produced by earlier versions.
	EncodingALaw
)

func (e Encoding) String() string {
	switch e {
	case EncodingFloat:
		return "float"
	case EncodingALaw:
		return "alaw"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// ParseEncoding maps a flag value to an Encoding
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float", "ieee-float", "f32":
		return EncodingFloat, nil
	case "alaw", "a-law":
		return EncodingALaw, nil
	}
	return 0, fmt.Errorf("unknown encoding %q (want float or alaw)", s)
}

// Config carries every tunable of the image to audio pipeline.
// Default returns the values the tool has always used.
type Config struct {
	ImageSize   int
	JPEGQuality int

	ChunkSize      int
	FrequencyScale int
	ToneDuration   float64

	SampleRate int
	Channels   int
	Gain       float64
	Encoding   Encoding
}

// Default returns the stock configuration
func Default() Config {
	return Config{
		ImageSize:      ImageSize,
		JPEGQuality:    JPEGQuality,
		ChunkSize:      ChunkSize,
		FrequencyScale: FrequencyScale,
		ToneDuration:   ToneDuration,
		SampleRate:     SampleRate,
		Channels:       Channels,
		Gain:           Gain,
		Encoding:       EncodingFloat,
	}
}

// Validate reports every out-of-range field
func (c Config) Validate() error {
	var errs []error
	if c.ImageSize <= 0 {
		errs = append(errs, fmt.Errorf("image size must be positive, got %d", c.ImageSize))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("JPEG quality must be between 1 and 100, got %d", c.JPEGQuality))
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize))
	}
	if c.FrequencyScale <= 0 {
		errs = append(errs, fmt.Errorf("frequency scale must be positive, got %d", c.FrequencyScale))
	}
	if c.ToneDuration <= 0 {
		errs = append(errs, fmt.Errorf("tone duration must be positive, got %g", c.ToneDuration))
	}
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate must be positive, got %d", c.SampleRate))
	}
	if c.Channels < 1 || c.Channels > 2 {
		errs = append(errs, fmt.Errorf("channels must be 1 or 2, got %d", c.Channels))
	}
	if c.Gain <= 0 || c.Gain > 1 {
		errs = append(errs, fmt.Errorf("gain must be in (0, 1], got %g", c.Gain))
	}
	if c.Encoding != EncodingFloat && c.Encoding != EncodingALaw {
		errs = append(errs, fmt.Errorf("unsupported encoding %v", c.Encoding))
	}
	return errors.Join(errs...)
}

// ParseHexColor parses "RRGGBB" or "#RRGGBB" into its components
func ParseHexColor(s string) (r, g, b uint8, err error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q: want 6 hex digits", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}

	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
