package pipeline

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"time"

	"github.com/linuxmatters/pixeltone/internal/audio"
	"github.com/linuxmatters/pixeltone/internal/config"
	"github.com/linuxmatters/pixeltone/internal/picture"
	"github.com/linuxmatters/pixeltone/internal/tone"
)

// Stage identifies a step of the conversion
type Stage int

const (
	StageNormalize Stage = iota
	StageExtract
	StageChunk
	StageWrite
)

// NumStages is the number of stages Run reports
const NumStages = 4

func (s Stage) String() string {
	switch s {
	case StageNormalize:
		return "Normalising image"
	case StageExtract:
		return "Extracting brightness"
	case StageChunk:
		return "Mapping tones"
	case StageWrite:
		return "Writing waveform"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Hooks receive progress from Run. Every field is optional.
type Hooks struct {
	Stage   func(Stage)
	Picture func(image.Image) // normalised image, before extraction
	Tone    audio.ProgressFunc
}

// Options configure a single Run
type Options struct {
	Config         config.Config
	KeepCompressed bool // leave the normalised JPEG on disk
	Hooks          Hooks
}

// Result summarises a completed conversion
type Result struct {
	OutputPath     string
	CompressedPath string // empty unless KeepCompressed was set
	Pixels         int
	Windows        int
	Descriptors    []tone.Descriptor
	Elapsed        time.Duration
}

// Run converts the image at inputPath into a waveform at outputPath.
// Stages run strictly in order and the first failure aborts the run. The
// normalised JPEG is removed on every return path unless KeepCompressed is
// set, and a failed write leaves no output file.
func Run(inputPath, outputPath string, opts Options) (res *Result, err error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArgument, err)
	}

	hooks := opts.Hooks
	start := time.Now()

	hooks.stage(StageNormalize)
	compressed, err := picture.Normalize(inputPath, cfg)
	if err != nil {
		return nil, classify("normalising image", err)
	}

	if !opts.KeepCompressed {
		defer func() {
			rmErr := os.Remove(compressed)
			if rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
				err = classify("removing compressed image", rmErr)
			}
		}()
	}

	hooks.stage(StageExtract)
	img, err := picture.Load(compressed)
	if err != nil {
		return nil, classify("reading compressed image", err)
	}
	if hooks.Picture != nil {
		hooks.Picture(img)
	}

	brightness := picture.ExtractBrightness(img)
	if len(brightness) == 0 {
		return nil, fmt.Errorf("%w: no pixels in %s", ErrInvariant, compressed)
	}

	hooks.stage(StageChunk)
	descriptors := tone.Chunk(brightness, cfg)

	hooks.stage(StageWrite)
	if err := audio.WriteTones(outputPath, descriptors, cfg, hooks.Tone); err != nil {
		return nil, classify("writing waveform", err)
	}

	res = &Result{
		OutputPath:  outputPath,
		Pixels:      len(brightness),
		Windows:     tone.WindowCount(len(brightness), cfg.ChunkSize),
		Descriptors: descriptors,
		Elapsed:     time.Since(start),
	}
	if opts.KeepCompressed {
		res.CompressedPath = compressed
	}

	return res, nil
}

func (h Hooks) stage(s Stage) {
	if h.Stage != nil {
		h.Stage(s)
	}
}
