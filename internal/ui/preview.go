package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// PreviewConfig holds configuration for the picture preview
type PreviewConfig struct {
	Width  int // Width in terminal cells
	Height int // Height in terminal cells
}

// DefaultPreviewConfig returns a preview sized for the normalised square
// picture. Terminal cells are roughly twice as tall as they are wide, so
// the grid has half as many rows as columns.
func DefaultPreviewConfig() PreviewConfig {
	return PreviewConfig{
		Width:  50,
		Height: 25,
	}
}

// DownsamplePicture averages the picture down to one colour per terminal cell.
// Cells that map to no source pixels stay black.
func DownsamplePicture(img image.Image, config PreviewConfig) [][]color.RGBA {
	if config.Width <= 0 || config.Height <= 0 {
		return nil
	}

	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	preview := make([][]color.RGBA, config.Height)
	for row := 0; row < config.Height; row++ {
		preview[row] = make([]color.RGBA, config.Width)

		y0 := row * srcHeight / config.Height
		y1 := (row + 1) * srcHeight / config.Height
		for col := 0; col < config.Width; col++ {
			x0 := col * srcWidth / config.Width
			x1 := (col + 1) * srcWidth / config.Width

			var sumR, sumG, sumB uint32
			pixelCount := uint32(0)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
					// RGBA() returns 16-bit values, convert to 8-bit
					sumR += r >> 8
					sumG += g >> 8
					sumB += b >> 8
					pixelCount++
				}
			}

			px := color.RGBA{A: 255}
			if pixelCount > 0 {
				px.R = uint8(sumR / pixelCount)
				px.G = uint8(sumG / pixelCount)
				px.B = uint8(sumB / pixelCount)
			}
			preview[row][col] = px
		}
	}

	return preview
}

// RenderPreview converts a colour grid to a string using ANSI 24-bit true
// colour backgrounds, one space per cell
func RenderPreview(preview [][]color.RGBA) string {
	if len(preview) == 0 {
		return ""
	}

	width := len(preview[0])
	var b strings.Builder

	b.WriteString("  Picture Preview:\n")
	b.WriteString("  ┌" + strings.Repeat("─", width) + "┐\n")

	for _, row := range preview {
		b.WriteString("  │")
		for _, pixel := range row {
			// \x1b[48;2;R;G;Bm sets the background colour
			fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm \x1b[0m", pixel.R, pixel.G, pixel.B)
		}
		b.WriteString("│\n")
	}

	b.WriteString("  └" + strings.Repeat("─", width) + "┘\n")

	return b.String()
}
