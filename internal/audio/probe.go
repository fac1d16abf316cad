package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// Info describes what a WAV file's header declares
type Info struct {
	Format     int // WAVE format tag
	SampleRate int
	Channels   int
	BitDepth   int
	DataBytes  int64
	FileSize   int64
}

// Frames returns the number of sample frames the header implies
func (i *Info) Frames() int64 {
	blockAlign := int64(i.Channels * i.BitDepth / 8)
	if blockAlign == 0 {
		return 0
	}
	return i.DataBytes / blockAlign
}

// Duration returns the playback length a reader of the header would compute
func (i *Info) Duration() time.Duration {
	if i.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(i.Frames()) / float64(i.SampleRate) * float64(time.Second))
}

// FormatName returns a short label for the declared format tag
func (i *Info) FormatName() string {
	switch i.Format {
	case 1:
		return "PCM"
	case FormatIEEEFloat:
		return "IEEE float"
	case FormatALaw:
		return "A-law"
	default:
		return fmt.Sprintf("format 0x%04x", i.Format)
	}
}

// Probe reads the header of the WAV file at path
func Probe(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if err := decoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("failed to seek to PCM data: %w", err)
	}
	if err := decoder.Err(); err != nil {
		return nil, fmt.Errorf("invalid WAV file: %w", err)
	}
	if decoder.NumChans == 0 {
		return nil, fmt.Errorf("invalid WAV file")
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return &Info{
		Format:     int(decoder.WavAudioFormat),
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		BitDepth:   int(decoder.BitDepth),
		DataBytes:  int64(decoder.PCMSize),
		FileSize:   stat.Size(),
	}, nil
}
