package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/linuxmatters/pixeltone/internal/config"
	"github.com/linuxmatters/pixeltone/internal/tone"
)

// WAVE format tags
const (
	FormatIEEEFloat = 3
	FormatALaw      = 6
)

// Container layout: RIFF header (12), fmt chunk with cbSize (26),
// fact chunk (12), data chunk header (8)
const (
	headerSize      = 58
	fmtChunkSize    = 18
	riffSizeOffset  = 4
	factCountOffset = 46
	dataSizeOffset  = 54
)

var factID = [4]byte{'f', 'a', 'c', 't'}

// ErrTooLarge is returned when the payload would overflow the 32-bit RIFF sizes
var ErrTooLarge = errors.New("waveform exceeds 4 GiB RIFF limit")

// Writer streams float32 samples into a RIFF/WAVE file. The header is
// written up front with zero sizes and patched by Close.
type Writer struct {
	file          *os.File
	format        uint16
	channels      uint16
	sampleRate    uint32
	bitsPerSample uint16
	blockAlign    uint16

	dataBytes int64
	buf       []byte
	closed    bool
}

// Create opens path for writing and emits a placeholder header for cfg.
// The payload is always little-endian float32; cfg.Encoding only decides
// which format the header declares.
func Create(path string, cfg config.Config) (*Writer, error) {
	w := &Writer{
		channels:   uint16(cfg.Channels),
		sampleRate: uint32(cfg.SampleRate),
	}

	switch cfg.Encoding {
	case config.EncodingFloat:
		w.format = FormatIEEEFloat
		w.bitsPerSample = 32
	case config.EncodingALaw:
		w.format = FormatALaw
		w.bitsPerSample = 8
	default:
		return nil, fmt.Errorf("unsupported encoding %v", cfg.Encoding)
	}
	w.blockAlign = w.channels * w.bitsPerSample / 8

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	w.file = f

	if _, err := f.Write(w.header()); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}

	return w, nil
}

// header renders the 58 byte header for the current payload size
func (w *Writer) header() []byte {
	h := make([]byte, headerSize)

	copy(h[0:4], riff.RiffID[:])
	binary.LittleEndian.PutUint32(h[4:8], uint32(headerSize-8+w.dataBytes))
	copy(h[8:12], riff.WavFormatID[:])

	copy(h[12:16], riff.FmtID[:])
	binary.LittleEndian.PutUint32(h[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(h[20:22], w.format)
	binary.LittleEndian.PutUint16(h[22:24], w.channels)
	binary.LittleEndian.PutUint32(h[24:28], w.sampleRate)
	binary.LittleEndian.PutUint32(h[28:32], w.sampleRate*uint32(w.blockAlign))
	binary.LittleEndian.PutUint16(h[32:34], w.blockAlign)
	binary.LittleEndian.PutUint16(h[34:36], w.bitsPerSample)
	binary.LittleEndian.PutUint16(h[36:38], 0) // cbSize

	copy(h[38:42], factID[:])
	binary.LittleEndian.PutUint32(h[42:46], 4)
	binary.LittleEndian.PutUint32(h[46:50], w.factSampleCount())

	copy(h[50:54], riff.DataFormatID[:])
	binary.LittleEndian.PutUint32(h[54:58], uint32(w.dataBytes))

	return h
}

// factSampleCount is the per-channel sample count implied by the declared format
func (w *Writer) factSampleCount() uint32 {
	bitsPerFrame := int64(w.bitsPerSample) * int64(w.channels)
	if bitsPerFrame == 0 {
		return 0
	}
	return uint32(w.dataBytes * 8 / bitsPerFrame)
}

// WriteSamples appends buf's samples as little-endian float32 bytes
func (w *Writer) WriteSamples(buf *audio.Float32Buffer) error {
	if w.closed {
		return errors.New("write on closed waveform writer")
	}

	size := len(buf.Data) * 4
	if w.dataBytes+int64(size) > math.MaxUint32-(headerSize-8) {
		return ErrTooLarge
	}

	if cap(w.buf) < size {
		w.buf = make([]byte, size)
	}
	out := w.buf[:size]
	for i, s := range buf.Data {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}

	n, err := w.file.Write(out)
	w.dataBytes += int64(n)
	if err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}

	return nil
}

// DataBytes returns the payload size written so far
func (w *Writer) DataBytes() int64 {
	return w.dataBytes
}

// Close patches the size fields, syncs and closes the file. It is safe to
// call more than once.
func (w *Writer) Close() error {
	if w == nil || w.closed {
		return nil
	}
	w.closed = true

	h := w.header()
	patches := []struct {
		off int64
		b   []byte
	}{
		{riffSizeOffset, h[4:8]},
		{factCountOffset, h[46:50]},
		{dataSizeOffset, h[54:58]},
	}

	var err error
	for _, p := range patches {
		if _, werr := w.file.WriteAt(p.b, p.off); werr != nil {
			err = fmt.Errorf("failed to update WAV header: %w", werr)
			break
		}
	}

	if err == nil {
		if serr := w.file.Sync(); serr != nil {
			err = fmt.Errorf("failed to sync output: %w", serr)
		}
	}

	if cerr := w.file.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close output: %w", cerr)
	}

	return err
}

// ProgressFunc is called after each tone is written
type ProgressFunc func(done, total int)

// WriteTones synthesises every descriptor in order and writes the result
// to path. The file is closed on every return path; if anything fails the
// partial file is removed so no truncated waveform is left behind.
func WriteTones(path string, descriptors []tone.Descriptor, cfg config.Config, progress ProgressFunc) (err error) {
	w, err := Create(path, cfg)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	for i, d := range descriptors {
		samples := tone.Synthesize(d.Frequency, d.Duration, cfg)
		if err := w.WriteSamples(samples); err != nil {
			return fmt.Errorf("tone %d (%d Hz): %w", i, d.Frequency, err)
		}

		if progress != nil {
			progress(i+1, len(descriptors))
		}
	}

	return nil
}
