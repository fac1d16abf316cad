package pipeline

import (
	"errors"
	"fmt"

	"github.com/linuxmatters/pixeltone/internal/picture"
)

var (
	// ErrArgument marks missing, malformed or out-of-range arguments
	ErrArgument = errors.New("invalid argument")
	// ErrDecode marks an input that is not a decodable image
	ErrDecode = picture.ErrDecode
	// ErrIO marks a filesystem failure in any stage
	ErrIO = errors.New("i/o error")
	// ErrInvariant marks a state the pipeline should never reach
	ErrInvariant = errors.New("internal invariant violated")
)

// classify wraps a stage error so errors.Is reports exactly one kind
func classify(op string, err error) error {
	if errors.Is(err, ErrDecode) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrIO, err)
}
