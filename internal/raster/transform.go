package raster

import "github.com/ecopia-map/stereo_mesher/internal/converters"

// Returns img resampled through the given grid transform
func Transform(img *Image, t converters.GridTransform) *Image {
	w, h := t.Size(img.Width, img.Height)
	out := NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := t.Source(x, y, img.Width, img.Height)
			r, g, b := img.At(sx, sy)
			out.Set(x, y, r, g, b)
		}
	}
	return out
}

// Returns g resampled through the given grid transform
func TransformGray(g *Gray, t converters.GridTransform) *Gray {
	w, h := t.Size(g.Width, g.Height)
	out := NewGray(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := t.Source(x, y, g.Width, g.Height)
			out.Pix[y*w+x] = g.At(sx, sy)
		}
	}
	return out
}
