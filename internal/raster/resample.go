package raster

import (
	"github.com/nfnt/resize"

	"github.com/ecopia-map/stereo_mesher/internal/mesher"
)

func interpolationFunction(interp mesher.Interpolation) resize.InterpolationFunction {
	switch interp {
	case mesher.NearestNeighbor:
		return resize.NearestNeighbor
	case mesher.Bilinear:
		return resize.Bilinear
	case mesher.MitchellNetravali:
		return resize.MitchellNetravali
	case mesher.Lanczos2:
		return resize.Lanczos2
	case mesher.Lanczos3:
		return resize.Lanczos3
	}
	return resize.Bicubic
}

// Returns img resampled to width x height
func Resize(img *Image, width, height int, interp mesher.Interpolation) *Image {
	if img.Width == width && img.Height == height {
		out := NewImage(width, height)
		copy(out.Pix, img.Pix)
		return out
	}
	return FromImage(resize.Resize(uint(width), uint(height), img.ToRGBA(), interpolationFunction(interp)))
}

// Returns g resampled to width x height
func ResizeGray(g *Gray, width, height int, interp mesher.Interpolation) *Gray {
	if g.Width == width && g.Height == height {
		out := NewGray(width, height)
		copy(out.Pix, g.Pix)
		return out
	}
	return GrayFromImage(resize.Resize(uint(width), uint(height), g.ToImage(), interpolationFunction(interp)))
}
