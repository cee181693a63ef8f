package raster

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ecopia-map/stereo_mesher/internal/mesher"
)

// ErrDecode is wrapped by InputErrors for files that are not a supported image
var ErrDecode = errors.New("unsupported or corrupt image")

// Reads and decodes the image at filePath. Failures are reported as *mesher.InputError.
func Load(filePath string) (*Image, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, &mesher.InputError{Path: filePath, Err: err}
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, &mesher.InputError{Path: filePath, Err: errors.Wrap(ErrDecode, err.Error())}
	}
	out := FromImage(img)
	glog.V(2).Infof("decoded %s image %dx%d from %s", format, out.Width, out.Height, filePath)
	return out, nil
}

// Writes img as a PNG file
func SavePNG(filePath string, img image.Image) error {
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", filePath)
	}
	return f.Close()
}
