package picture

import (
	"image"
	"image/color"
)

// ExtractBrightness returns floor((R+G+B)/3) for every pixel of img in
// row-major order, top row first. Alpha is ignored. The result always has
// exactly width*height entries.
//
// Common decoder outputs are read through their Pix/stride accessors so
// padding at the end of a row never leaks into the sequence; anything else
// goes through the colour model.
func ExtractBrightness(img image.Image) []int {
	bounds := img.Bounds()
	out := make([]int, 0, bounds.Dx()*bounds.Dy())

	switch src := img.(type) {
	case *image.RGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				i := src.PixOffset(x, y)
				if a := src.Pix[i+3]; a != 0xff {
					// Premultiplied: undo it so alpha never scales brightness
					c := color.NRGBAModel.Convert(src.RGBAAt(x, y)).(color.NRGBA)
					out = append(out, average(c.R, c.G, c.B))
					continue
				}
				out = append(out, average(src.Pix[i], src.Pix[i+1], src.Pix[i+2]))
			}
		}
	case *image.NRGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				i := src.PixOffset(x, y)
				out = append(out, average(src.Pix[i], src.Pix[i+1], src.Pix[i+2]))
			}
		}
	case *image.YCbCr:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				yi := src.YOffset(x, y)
				ci := src.COffset(x, y)
				r, g, b := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
				out = append(out, average(r, g, b))
			}
		}
	case *image.Gray:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				// (v+v+v)/3 == v
				out = append(out, int(src.Pix[src.PixOffset(x, y)]))
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				out = append(out, average(c.R, c.G, c.B))
			}
		}
	}

	return out
}

func average(r, g, b uint8) int {
	return (int(r) + int(g) + int(b)) / 3
}
