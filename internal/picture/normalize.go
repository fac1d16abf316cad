package picture

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/linuxmatters/pixeltone/internal/config"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// CompressedPath returns where Normalize writes its artifact for inputPath:
// the input's directory, named <input file name>_compressed.jpg
func CompressedPath(inputPath string) string {
	return filepath.Join(filepath.Dir(inputPath), filepath.Base(inputPath)+config.CompressedSuffix)
}

// Load decodes the image file at path
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w %s: empty image", ErrDecode, path)
	}

	return img, nil
}

// Resize scales img to a size x size square. The result is opaque: colour
// is kept un-premultiplied and alpha is dropped, since JPEG has none.
func Resize(img image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// Normalize decodes the image at inputPath, shrinks it to the configured
// square and re-encodes it as a low quality JPEG beside the input. The
// coarse quantisation flattens pixel noise before brightness is sampled.
//
// The returned path is a temporary artifact; the caller removes it.
func Normalize(inputPath string, cfg config.Config) (string, error) {
	img, err := Load(inputPath)
	if err != nil {
		return "", err
	}

	resized := Resize(img, cfg.ImageSize)

	outputPath := CompressedPath(inputPath)
	if err := saveJPEG(resized, outputPath, cfg.JPEGQuality); err != nil {
		return "", err
	}

	return outputPath, nil
}

// saveJPEG writes img to a new file at path, leaving nothing behind on
// failure. An existing file is never overwritten.
func saveJPEG(img image.Image, path string, quality int) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrArtifactExists, path)
	}
	if err != nil {
		return fmt.Errorf("failed to create compressed image: %w", err)
	}

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to encode compressed image: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write compressed image: %w", err)
	}

	return nil
}
