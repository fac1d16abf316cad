package tone

import (
	"math"

	"github.com/go-audio/audio"
	"github.com/linuxmatters/pixeltone/internal/config"
)

// SampleCount returns the number of samples, across all channels, that
// Synthesize produces for duration seconds
func SampleCount(duration float64, sampleRate int) int {
	return int(math.Round(float64(sampleRate) * duration))
}

// Synthesize generates a sine tone of SampleCount(duration) interleaved
// samples. Each frame repeats the same value on every channel and frame n
// holds Gain*sin(2*pi*frequency*n/sampleRate), so every call starts at
// phase zero and identical arguments give identical buffers.
//
// With two channels the buffer holds half as many frames as samples;
// the tone therefore plays for duration/2 on a stereo device.
func Synthesize(frequency int, duration float64, cfg config.Config) *audio.Float32Buffer {
	channels := cfg.Channels
	if channels < 1 {
		channels = 1
	}

	n := SampleCount(duration, cfg.SampleRate)
	if n < 0 {
		n = 0
	}

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  cfg.SampleRate,
		},
		Data:           make([]float32, n),
		SourceBitDepth: 32,
	}

	step := 2 * math.Pi * float64(frequency) / float64(cfg.SampleRate)

	// A trailing partial frame stays zero
	frames := n / channels
	for frame := 0; frame < frames; frame++ {
		v := float32(cfg.Gain * math.Sin(float64(frame)*step))
		for ch := 0; ch < channels; ch++ {
			buf.Data[frame*channels+ch] = v
		}
	}

	return buf
}
