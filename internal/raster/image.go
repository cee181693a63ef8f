package raster

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// RGB raster with 8 bit channels, stored row major as R,G,B triples
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// Single channel 8 bit raster, stored row major
type Gray struct {
	Width  int
	Height int
	Pix    []uint8
}

func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 3*width*height),
	}
}

func NewGray(width, height int) *Gray {
	return &Gray{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

func (img *Image) Area() int {
	return img.Width * img.Height
}

func (img *Image) At(x, y int) (uint8, uint8, uint8) {
	i := 3 * (y*img.Width + x)
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

func (img *Image) Set(x, y int, r, g, b uint8) {
	i := 3 * (y*img.Width + x)
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = r, g, b
}

// Returns a copy of the rectangle starting at (x0, y0) with the given size
func (img *Image) Crop(x0, y0, width, height int) *Image {
	out := NewImage(width, height)
	for y := 0; y < height; y++ {
		src := 3 * ((y0+y)*img.Width + x0)
		copy(out.Pix[3*y*width:3*(y+1)*width], img.Pix[src:src+3*width])
	}
	return out
}

// Returns a left-right mirrored copy
func (img *Image) FlipHorizontal() *Image {
	out := NewImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			si := 3 * (y*img.Width + x)
			di := 3 * (y*img.Width + img.Width - 1 - x)
			copy(out.Pix[di:di+3], img.Pix[si:si+3])
		}
	}
	return out
}

// Converts to an opaque *image.RGBA
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i, j := 0, 0; i < len(img.Pix); i, j = i+3, j+4 {
		out.Pix[j] = img.Pix[i]
		out.Pix[j+1] = img.Pix[i+1]
		out.Pix[j+2] = img.Pix[i+2]
		out.Pix[j+3] = 0xff
	}
	return out
}

// Builds an RGB raster from any decoded image, alpha is dropped
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(rgba, rgba.Bounds(), src, b.Min, xdraw.Src)
	}
	out := NewImage(b.Dx(), b.Dy())
	for y := 0; y < out.Height; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+4*out.Width]
		for x := 0; x < out.Width; x++ {
			out.Set(x, y, row[4*x], row[4*x+1], row[4*x+2])
		}
	}
	return out
}

func (g *Gray) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

func (g *Gray) ToImage() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	copy(out.Pix, g.Pix)
	return out
}

// Builds a single channel raster from any image, converting colors with the standard luma weights
func GrayFromImage(src image.Image) *Gray {
	b := src.Bounds()
	out := NewGray(b.Dx(), b.Dy())
	if gray, ok := src.(*image.Gray); ok {
		for y := 0; y < out.Height; y++ {
			copy(out.Pix[y*out.Width:(y+1)*out.Width], gray.Pix[y*gray.Stride:y*gray.Stride+out.Width])
		}
		return out
	}
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			out.Pix[y*out.Width+x] = color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
		}
	}
	return out
}
