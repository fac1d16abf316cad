package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/linuxmatters/pixeltone/internal/pipeline"
)

// validateArgs checks the positional paths before any work starts. Both must
// be absolute, the input an existing .jpg or .jpeg file and the output a
// .wav path.
func validateArgs(input, output string) error {
	if input == "" || output == "" {
		return fmt.Errorf("%w: <input> and <output> are required", pipeline.ErrArgument)
	}

	if !filepath.IsAbs(input) {
		return fmt.Errorf("%w: input path must be absolute: %s", pipeline.ErrArgument, input)
	}
	if !filepath.IsAbs(output) {
		return fmt.Errorf("%w: output path must be absolute: %s", pipeline.ErrArgument, output)
	}

	switch strings.ToLower(filepath.Ext(input)) {
	case ".jpg", ".jpeg":
	default:
		return fmt.Errorf("%w: input must be a .jpg or .jpeg file: %s", pipeline.ErrArgument, input)
	}
	if !strings.EqualFold(filepath.Ext(output), ".wav") {
		return fmt.Errorf("%w: output must be a .wav file: %s", pipeline.ErrArgument, output)
	}

	info, err := os.Stat(input)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: input file does not exist: %s", pipeline.ErrArgument, input)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrIO, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: input is a directory: %s", pipeline.ErrArgument, input)
	}

	return nil
}
