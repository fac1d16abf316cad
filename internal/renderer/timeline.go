package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/linuxmatters/pixeltone/internal/config"
	"github.com/linuxmatters/pixeltone/internal/tone"
)

const titleFontSize = 24

var backgroundColor = color.RGBA{R: 16, G: 16, B: 24, A: 255}

// Chart describes how a timeline is drawn
type Chart struct {
	Title        string
	BarColor     color.RGBA
	MaxFrequency int // frequency drawn at full plot height
	Width        int
	Height       int
}

// DefaultChart returns a chart sized and coloured from config, scaled for
// the loudest tone the mapping can produce
func DefaultChart(title string, cfg config.Config) Chart {
	r, g, b, _ := config.ParseHexColor(config.ChartBarColor)
	return Chart{
		Title:        title,
		BarColor:     color.RGBA{R: r, G: g, B: b, A: 255},
		MaxFrequency: 255 * cfg.FrequencyScale,
		Width:        config.ChartWidth,
		Height:       config.ChartHeight,
	}
}

// getTextColor returns the brand yellow used for the title
func getTextColor() color.RGBA {
	return color.RGBA{R: config.TextColorR, G: config.TextColorG, B: config.TextColorB, A: 255}
}

// plotArea returns the rectangle bars are drawn in, below the title band
func (c Chart) plotArea() image.Rectangle {
	top := config.ChartMargin + titleFontSize + config.ChartMargin/2
	return image.Rect(config.ChartMargin, top, c.Width-config.ChartMargin, c.Height-config.ChartMargin)
}

// barRect returns where the tone for window w out of windows is drawn.
// Bars grow up from the bottom of the plot and are at least one pixel wide.
func (c Chart) barRect(d tone.Descriptor, windows int) image.Rectangle {
	plot := c.plotArea()
	x0 := plot.Min.X + plot.Dx()*d.Window/windows
	x1 := plot.Min.X + plot.Dx()*(d.Window+1)/windows
	if x1 <= x0 {
		x1 = x0 + 1
	}

	freq := min(d.Frequency, c.MaxFrequency)
	h := plot.Dy() * freq / c.MaxFrequency
	return image.Rect(x0, plot.Max.Y-h, x1, plot.Max.Y)
}

// Draw renders the tone timeline: one bar per emitted tone, positioned by
// its window and scaled by its frequency. Silent windows leave gaps.
func (c Chart) Draw(descriptors []tone.Descriptor, windows int) (*image.RGBA, error) {
	if c.Width <= 2*config.ChartMargin || c.Height <= 3*config.ChartMargin+titleFontSize {
		return nil, fmt.Errorf("chart size %dx%d is too small", c.Width, c.Height)
	}
	if c.MaxFrequency <= 0 {
		return nil, errors.New("chart max frequency must be positive")
	}

	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	if windows > 0 {
		bar := image.NewUniform(c.BarColor)
		for _, d := range descriptors {
			if d.Window < 0 || d.Window >= windows {
				return nil, fmt.Errorf("tone window %d outside 0..%d", d.Window, windows-1)
			}
			draw.Draw(img, c.barRect(d, windows), bar, image.Point{}, draw.Src)
		}
	}

	// Baseline
	plot := c.plotArea()
	axis := image.Rect(plot.Min.X, plot.Max.Y, plot.Max.X, plot.Max.Y+1)
	draw.Draw(img, axis, image.NewUniform(getTextColor()), image.Point{}, draw.Src)

	if err := drawTitle(img, c.Title); err != nil {
		return nil, err
	}

	return img, nil
}

// drawTitle writes the title left-aligned in the band above the plot
func drawTitle(img *image.RGBA, title string) error {
	if title == "" {
		return nil
	}

	parsedFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}

	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size: titleFontSize,
		DPI:  72,
	})
	defer face.Close()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(getTextColor()),
		Face: face,
	}

	// The baseline sits one ascent below the top margin
	ascent := face.Metrics().Ascent.Ceil()
	d.Dot = freetype.Pt(config.ChartMargin, config.ChartMargin+ascent)
	d.DrawString(title)
	return nil
}

// RenderTimeline draws the chart and saves it as a PNG at outputPath
func RenderTimeline(outputPath string, descriptors []tone.Descriptor, windows int, chart Chart) error {
	img, err := chart.Draw(descriptors, windows)
	if err != nil {
		return err
	}

	if err := saveChart(img, outputPath); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

// saveChart saves the image to a PNG file, removing it if encoding fails
func saveChart(img *image.RGBA, outputPath string) error {
	outFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}

	if err := png.Encode(outFile, img); err != nil {
		outFile.Close()
		os.Remove(outputPath)
		return err
	}
	return outFile.Close()
}
